package jobs

import (
	"sync"
	"time"

	"github.com/bgraves/pagemill/internal/richtext"
)

// Status represents the state of an import job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusImporting Status = "importing"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job tracks a single document import from upload to rendered pages.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status Status          `json:"status"`
	Policy richtext.Policy `json:"policy"`
	Error  string          `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	pages    []richtext.Page
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a reason.
func (j *Job) Fail(reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = reason
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw upload bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetPages records the rendered result and releases the upload bytes.
func (j *Job) SetPages(pages []richtext.Page) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pages = pages
	j.fileData = nil
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// Pages returns the rendered pages, or nil until the job completes.
func (j *Job) Pages() []richtext.Page {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pages
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Status:    j.Status,
		Error:     j.Error,
		PageCount: len(j.pages),
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// Store is a thread-safe in-memory job registry with TTL eviction.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *Store) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *Store) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes jobs not updated within the TTL.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}
