package pipeline

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/render"
)

// JobStatus represents the state of an export job.
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusParsing      JobStatus = "parsing"
	StatusOutlining    JobStatus = "outlining"
	StatusTransforming JobStatus = "transforming"
	StatusRendering    JobStatus = "rendering"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single document export.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Format      artifact.Format    `json:"format"`
	Orientation render.Orientation `json:"orientation,omitempty"`
	Meta        course.Meta        `json:"-"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	title    string
	result   *artifact.Artifact
	errors   []string
}

// Progress counts what each phase produced.
type Progress struct {
	OutlineItems int      `json:"outline_items"`
	Sections     int      `json:"sections"`
	Paragraphs   int      `json:"paragraphs"`
	Bytes        int      `json:"bytes"`
	Errors       []string `json:"errors"`
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename string, data []byte, f artifact.Format, o render.Orientation, meta course.Meta) *Job {
	now := time.Now()
	return &Job{
		ID:          newJobID(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		Format:      f,
		Orientation: o,
		Meta:        meta,
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
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

// Delete removes a job and reports whether it existed.
func (s *JobStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[id]
	delete(s.jobs, id)
	return ok
}

// List returns snapshots of every job, oldest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	out := make([]JobSnapshot, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Snapshot())
	}
	slices.SortFunc(out, func(a, b JobSnapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
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

// Fail records err and marks the job failed during phase.
func (j *Job) Fail(phase string, err error) {
	j.AddError(fmt.Sprintf("%s: %s", phase, err))
	j.SetStatus(StatusFailed, phase)
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetOutline records the number of outline items extracted.
func (j *Job) SetOutline(items int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.OutlineItems = items
	j.UpdatedAt = time.Now()
}

// SetCourse records the shape of the transformed document.
func (j *Job) SetCourse(title string, sections, paragraphs int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.title = title
	j.Progress.Sections = sections
	j.Progress.Paragraphs = paragraphs
	j.UpdatedAt = time.Now()
}

// SetResult stores the finished artifact and completes the job.
func (j *Job) SetResult(a artifact.Artifact) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &a
	j.fileData = nil
	j.Progress.Bytes = len(a.Data)
	j.ContentHash = ContentHashHex(a.Data)
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Result returns the artifact of a completed job.
func (j *Job) Result() (artifact.Artifact, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return artifact.Artifact{}, false
	}
	return *j.result, true
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string             `json:"job_id"`
	Status      JobStatus          `json:"status"`
	Phase       string             `json:"phase"`
	Filename    string             `json:"filename"`
	Title       string             `json:"title,omitempty"`
	Format      artifact.Format    `json:"format"`
	Orientation render.Orientation `json:"orientation,omitempty"`
	Progress    Progress           `json:"progress"`
	ContentHash string             `json:"content_hash,omitempty"`
	Artifact    string             `json:"artifact,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := slices.Clone(j.Progress.Errors)
	if errs == nil {
		errs = []string{}
	}
	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.title,
		Format:      j.Format,
		Orientation: j.Orientation,
		Progress:    j.Progress,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	snap.Progress.Errors = errs
	if j.result != nil {
		snap.Artifact = j.result.Filename
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
