package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/bomdiff/internal/render"
	"github.com/go-chi/chi/v5"
)

const defaultListLimit = 200

// handleListReports lists archived reports.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		jsonError(w, "archive not configured", http.StatusServiceUnavailable)
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.archive.ListReports(r.Context(), limit)
	if err != nil {
		s.log.Error("list reports failed", "error", err)
		jsonError(w, "failed to list reports: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"reports": entries})
}

// handleGetReport renders an archived report.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		jsonError(w, "archive not configured", http.StatusServiceUnavailable)
		return
	}
	out, err := render.ForFormat(queryOr(r, "output", "json"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.archive.GetReport(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		s.log.Error("get report failed", "error", err)
		jsonError(w, "failed to read report: "+err.Error(), http.StatusBadGateway)
		return
	}
	if rec == nil || rec.Report == nil {
		jsonError(w, "report not found", http.StatusNotFound)
		return
	}
	s.writeReport(w, rec.Report, out)
}

// handleDeleteReport deletes an archived report and its hash index entry.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		jsonError(w, "archive not configured", http.StatusServiceUnavailable)
		return
	}

	reportID := chi.URLParam(r, "reportID")
	deleted, err := s.archive.DeleteReport(r.Context(), reportID)
	if err != nil {
		s.log.Error("delete report failed", "report_id", reportID, "error", err)
		jsonError(w, "failed to delete report: "+err.Error(), http.StatusBadGateway)
		return
	}
	if !deleted {
		jsonError(w, "report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"report_id": reportID,
		"deleted":   true,
	})
}
