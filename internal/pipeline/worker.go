package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/bomdiff/internal/archive"
	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/metrics"
	"github.com/dgallion1/bomdiff/internal/parser"
	"github.com/dgallion1/bomdiff/internal/stats"
)

// Archive is the part of the archive client the pipeline writes to.
type Archive interface {
	PutReport(ctx context.Context, rec archive.Record) error
	FindByHash(ctx context.Context, hash string) (*archive.Record, error)
}

// Worker processes comparison jobs one at a time.
type Worker struct {
	profiles  parser.Profiles
	parseOpts parser.Options
	archive   Archive
	stats     *stats.CompareStats
	metrics   *metrics.Registry
	log       *slog.Logger
}

// NewWorker builds a worker. arc, st and m may be nil.
func NewWorker(profiles parser.Profiles, opts parser.Options, arc Archive, st *stats.CompareStats, m *metrics.Registry, log *slog.Logger) *Worker {
	return &Worker{
		profiles:  profiles,
		parseOpts: opts,
		archive:   arc,
		stats:     st,
		metrics:   m,
		log:       log,
	}
}

// Process runs the full comparison pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "original", job.Original, "updated", job.Updated)
	defer job.releaseInputs()

	profile, err := w.profiles.Lookup(job.Profile)
	if err != nil {
		w.fail(log, job, "parsing", err)
		return
	}

	// Phase 1: reuse an archived report for identical inputs.
	if w.archive != nil {
		if rec := w.findArchived(ctx, log, job); rec != nil {
			log.Info("identical inputs already compared, reusing report", "report_id", rec.ID)
			job.SetReport(rec.Report)
			job.SetReportID(rec.ID)
			w.metrics.IncArchiveReuse()
			job.SetStatus(StatusDupReused, "done")
			return
		}
	}

	// Phase 2: parse both inputs concurrently.
	start := time.Now()
	job.SetStatus(StatusParsing, "parsing")
	original, updated := job.Inputs()
	a, b, err := parseBoth(ctx, original, updated, profile, w.parseOpts)
	if err != nil {
		w.metrics.RecordCompare("failed", time.Since(start), 0, 0, 0)
		w.fail(log, job, "parsing", err)
		return
	}
	job.SetLines(len(a), len(b))
	w.metrics.RecordBOM(len(a))
	w.metrics.RecordBOM(len(b))
	log.Info("parsed inputs", "original_lines", len(a), "updated_lines", len(b))

	if err := ctx.Err(); err != nil {
		w.fail(log, job, "parsing", err)
		return
	}

	// Phase 3: build trees and compare.
	job.SetStatus(StatusComparing, "comparing")
	rep, err := compareLines(job.Original, job.Updated, a, b)
	elapsed := time.Since(start)
	if err != nil {
		w.metrics.RecordCompare("failed", elapsed, 0, 0, 0)
		w.fail(log, job, "comparing", err)
		return
	}
	job.SetReport(rep)
	w.stats.Record(elapsed, rep.Summary.Total())
	w.metrics.RecordCompare("success", elapsed, rep.Summary.Added, rep.Summary.Removed, rep.Summary.Changed)
	log.Info("comparison complete",
		"added", rep.Summary.Added,
		"removed", rep.Summary.Removed,
		"changed", rep.Summary.Changed,
		"duration_ms", elapsed.Milliseconds(),
	)

	// Phase 4: archive. Failures are recorded but do not fail the job.
	if w.archive != nil {
		job.SetStatus(StatusArchiving, "archiving")
		rec := archive.Record{
			ID:        NewReportID(),
			Original:  job.Original,
			Updated:   job.Updated,
			Profile:   job.Profile,
			Hash:      job.ContentHash,
			CreatedAt: job.CreatedAt.UTC(),
			Report:    rep,
		}
		err := withRetry(ctx, log, "put_report", w.metrics.IncArchiveRetry, func() error {
			return w.archive.PutReport(ctx, rec)
		})
		if err != nil {
			log.Error("archive write failed", "error", err)
			job.AddError(fmt.Sprintf("archive: %s", err))
		} else {
			job.SetReportID(rec.ID)
		}
	}

	job.SetStatus(StatusCompleted, "done")
}

// findArchived looks up a report for the job's content hash. Lookup errors
// are logged and treated as a miss.
func (w *Worker) findArchived(ctx context.Context, log *slog.Logger, job *Job) *archive.Record {
	var rec *archive.Record
	err := withRetry(ctx, log, "find_by_hash", w.metrics.IncArchiveRetry, func() error {
		var err error
		rec, err = w.archive.FindByHash(ctx, job.ContentHash)
		return err
	})
	if err != nil {
		log.Warn("archive lookup failed, proceeding", "error", err)
		return nil
	}
	if rec == nil || rec.Report == nil {
		return nil
	}
	return rec
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("comparison failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}

// Compare runs a comparison synchronously and records stats and metrics.
// It does not touch the archive.
func (w *Worker) Compare(ctx context.Context, original, updated Input, profileName string) (*bom.Report, error) {
	profile, err := w.profiles.Lookup(profileName)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rep, err := Run(ctx, original, updated, profile, w.parseOpts)
	elapsed := time.Since(start)
	if err != nil {
		w.metrics.RecordCompare("failed", elapsed, 0, 0, 0)
		return nil, err
	}
	w.stats.Record(elapsed, rep.Summary.Total())
	w.metrics.RecordCompare("success", elapsed, rep.Summary.Added, rep.Summary.Removed, rep.Summary.Changed)
	return rep, nil
}
