package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/google/uuid"
)

// JobStatus represents the state of a comparison job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusComparing JobStatus = "comparing"
	StatusArchiving JobStatus = "archiving"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusDupReused JobStatus = "duplicate_reused"
)

// Input is one uploaded BOM file.
type Input struct {
	Filename string
	Data     []byte
}

// Job tracks the state of a single BOM comparison.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	ReportID string `json:"report_id,omitempty"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Original string    `json:"original"`
	Updated  string    `json:"updated"`
	Profile  string    `json:"profile"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	original Input
	updated  Input
	report   *bom.Report
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	OriginalLines int      `json:"original_lines"`
	UpdatedLines  int      `json:"updated_lines"`
	Added         int      `json:"added"`
	Removed       int      `json:"removed"`
	Changed       int      `json:"changed"`
	Errors        []string `json:"errors"`
}

// NewJob creates a queued job for comparing original against updated with
// the named profile.
func NewJob(original, updated Input, profile string) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Original:    original.Filename,
		Updated:     updated.Filename,
		Profile:     profile,
		ContentHash: InputsHash(profile, original.Data, updated.Data),
		CreatedAt:   now,
		UpdatedAt:   now,
		original:    original,
		updated:     updated,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetLines records the number of parsed lines on each side.
func (j *Job) SetLines(original, updated int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.OriginalLines = original
	j.Progress.UpdatedLines = updated
	j.UpdatedAt = time.Now()
}

// SetReport stores the finished report and its row counts.
func (j *Job) SetReport(rep *bom.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.report = rep
	j.Progress.Added = rep.Summary.Added
	j.Progress.Removed = rep.Summary.Removed
	j.Progress.Changed = rep.Summary.Changed
	j.UpdatedAt = time.Now()
}

// Report returns the finished report, or nil while the job is running.
func (j *Job) Report() *bom.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.report
}

// SetReportID records the archive ID of the job's report.
func (j *Job) SetReportID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ReportID = id
	j.UpdatedAt = time.Now()
}

// Inputs returns the uploaded files.
func (j *Job) Inputs() (original, updated Input) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.original, j.updated
}

// releaseInputs drops the uploaded bytes once they are no longer needed.
func (j *Job) releaseInputs() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.original.Data = nil
	j.updated.Data = nil
}

// Done reports whether the job reached a terminal status.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusDupReused
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	ReportID    string    `json:"report_id,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Original    string    `json:"original"`
	Updated     string    `json:"updated"`
	Profile     string    `json:"profile"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	progress := j.Progress
	progress.Errors = append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		ReportID:    j.ReportID,
		Status:      j.Status,
		Phase:       j.Phase,
		Original:    j.Original,
		Updated:     j.Updated,
		Profile:     j.Profile,
		ContentHash: j.ContentHash,
		Progress:    progress,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// InputsHash computes a SHA-256 over the profile name and both inputs, in
// order, and returns it as hex. Each part is length-prefixed so different
// splits of the same bytes hash differently.
func InputsHash(profile string, original, updated []byte) string {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(profile), original, updated} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write(part)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// NewReportID returns a time-ordered report ID.
func NewReportID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
