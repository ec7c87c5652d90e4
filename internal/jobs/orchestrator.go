package jobs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bgraves/pagemill/internal/config"
	"github.com/bgraves/pagemill/internal/ingest"
	"github.com/bgraves/pagemill/internal/richtext"
	"github.com/google/uuid"
)

// Orchestrator manages the async document import pipeline.
type Orchestrator struct {
	store *Store
	queue chan *Job
	log   *slog.Logger
	cfg   config.Config

	mu     sync.Mutex // guards closed and sends on queue during Stop
	closed bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store: NewStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
	}
}

// NewJob builds a queued job for an uploaded file.
func NewJob(filename string, policy richtext.Policy, data []byte) *Job {
	now := time.Now()
	j := &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Status:    StatusQueued,
		Policy:    policy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	j.SetFileData(data)
	return j
}

// Start launches worker goroutines and the store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
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
					o.process(job)
				}
			}
		}()
	}

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
				o.store.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Safe to call more than once.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()
	o.wg.Wait()
}

// Submit queues a job for processing. Submitting after Stop fails the
// job instead of panicking on the closed queue.
func (o *Orchestrator) Submit(job *Job) error {
	o.store.Put(job)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		job.Fail("shutting_down")
		return fmt.Errorf("pipeline is shutting down")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.store.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// process runs one job: import the file into a content tree, then
// render it into pages under the job's pagination policy.
func (o *Orchestrator) process(job *Job) {
	start := time.Now()
	job.SetStatus(StatusImporting)

	imp, err := ingest.ForFile(job.Filename)
	if err != nil {
		job.Fail(err.Error())
		return
	}
	if p, ok := imp.(*ingest.PDFImporter); ok {
		p.FallbackPdftotext = o.cfg.PDFFallbackPdftotext
	}

	doc, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		o.log.Error("import failed", "job_id", job.ID, "filename", job.Filename, "error", err)
		job.Fail(err.Error())
		return
	}

	job.SetStatus(StatusRendering)
	pages := richtext.Paginate(doc, richtext.Config{
		Policy:   job.Policy,
		MaxDepth: o.cfg.MaxRenderDepth,
	})
	job.SetPages(pages)

	o.log.Info("job completed",
		"job_id", job.ID,
		"filename", job.Filename,
		"pages", len(pages),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
