package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/config"
	"github.com/dgallion1/bomdiff/internal/metrics"
	"github.com/dgallion1/bomdiff/internal/parser"
	"github.com/dgallion1/bomdiff/internal/stats"
)

// Orchestrator manages the comparison job queue and its workers.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	worker  *Worker
	metrics *metrics.Registry
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. arc may be nil to disable archiving.
func NewOrchestrator(cfg config.Config, profiles parser.Profiles, arc Archive, st *stats.CompareStats, m *metrics.Registry, log *slog.Logger) *Orchestrator {
	opts := parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		worker:  NewWorker(profiles, opts, arc, st, m, log),
		metrics: m,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.metrics.SetQueueDepth(len(o.queue))
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.metrics.SetQueueDepth(len(o.queue))
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// Compare runs a comparison synchronously on the caller's goroutine.
func (o *Orchestrator) Compare(ctx context.Context, original, updated Input, profile string) (*bom.Report, error) {
	return o.worker.Compare(ctx, original, updated, profile)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Profiles returns the registered format profiles.
func (o *Orchestrator) Profiles() parser.Profiles {
	return o.worker.profiles
}
