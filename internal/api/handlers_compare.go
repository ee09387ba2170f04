package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/parser"
	"github.com/dgallion1/bomdiff/internal/pipeline"
	"github.com/dgallion1/bomdiff/internal/render"
	"github.com/go-chi/chi/v5"
)

// compareForm is a parsed comparison upload.
type compareForm struct {
	original pipeline.Input
	updated  pipeline.Input
	profile  string
	output   render.Writer
}

// handleCompare compares two uploads and responds with the rendered report.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	form, ok := s.readCompareForm(w, r)
	if !ok {
		return
	}

	rep, err := s.orchestrator.Compare(r.Context(), form.original, form.updated, form.profile)
	if err != nil {
		s.log.Warn("comparison failed", "original", form.original.Filename, "updated", form.updated.Filename, "error", err)
		jsonError(w, "comparison failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.writeReport(w, rep, form.output)
}

// handleSubmitCompare queues a comparison and returns its job ID.
func (s *Server) handleSubmitCompare(w http.ResponseWriter, r *http.Request) {
	form, ok := s.readCompareForm(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(form.original, form.updated, form.profile)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     snap.ID,
		"status":     snap.Status,
		"poll_url":   fmt.Sprintf("/api/compare/jobs/%s/status", snap.ID),
		"report_url": fmt.Sprintf("/api/compare/jobs/%s/report", snap.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	out, err := render.ForFormat(queryOr(r, "output", "json"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := job.Snapshot()
	switch {
	case snap.Status == pipeline.StatusFailed:
		jsonError(w, "job failed: "+strings.Join(snap.Progress.Errors, "; "), http.StatusConflict)
		return
	case !snap.Status.Done():
		jsonError(w, fmt.Sprintf("job not finished (status %s)", snap.Status), http.StatusConflict)
		return
	}
	rep := job.Report()
	if rep == nil {
		jsonError(w, "job has no report", http.StatusConflict)
		return
	}
	s.writeReport(w, rep, out)
}

// readCompareForm parses the multipart upload. On failure it writes the
// error response and returns false.
func (s *Server) readCompareForm(w http.ResponseWriter, r *http.Request) (compareForm, bool) {
	// Two files plus 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return compareForm{}, false
	}
	defer r.MultipartForm.RemoveAll()

	var form compareForm
	var err error
	for _, f := range []struct {
		field string
		dst   *pipeline.Input
	}{
		{"original", &form.original},
		{"updated", &form.updated},
	} {
		if *f.dst, err = s.readUpload(r, f.field); err != nil {
			status := http.StatusBadRequest
			var ue *uploadError
			if errors.As(err, &ue) {
				status = ue.status
			}
			jsonError(w, err.Error(), status)
			return compareForm{}, false
		}
	}

	form.profile = r.FormValue("profile")
	if form.profile == "" {
		form.profile = s.cfg.DefaultProfile
	}
	if _, err := s.orchestrator.Profiles().Lookup(form.profile); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return compareForm{}, false
	}

	output := r.FormValue("output")
	if output == "" {
		output = "json"
	}
	if form.output, err = render.ForFormat(output); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return compareForm{}, false
	}
	return form, true
}

type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

func (s *Server) readUpload(r *http.Request, field string) (pipeline.Input, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return pipeline.Input{}, &uploadError{http.StatusBadRequest, field + " file is required: " + err.Error()}
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.Input{}, &uploadError{http.StatusBadRequest, fmt.Sprintf("%s: unsupported file type: %s", field, filepath.Ext(filename))}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.Input{}, &uploadError{http.StatusInternalServerError, "failed to read " + field}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.Input{}, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds max size (%d bytes)", field, s.cfg.MaxUploadBytes)}
	}
	return pipeline.Input{Filename: filename, Data: data}, nil
}

// writeReport renders into a buffer first so a render error can still be
// reported as JSON.
func (s *Server) writeReport(w http.ResponseWriter, rep *bom.Report, out render.Writer) {
	var buf bytes.Buffer
	if err := out.Write(&buf, rep); err != nil {
		s.log.Error("render failed", "format", out.Ext(), "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", out.ContentType())
	if out.Ext() != "json" {
		name := render.DefaultFilename(rep.Original, rep.Updated, out.Ext())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	w.Write(buf.Bytes())
}

func queryOr(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
