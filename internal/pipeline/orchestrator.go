package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/coursedoc/internal/config"
	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/parser"
)

// Orchestrator manages the export job queue.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch the workers.
func NewOrchestrator(cfg config.Config, l labels.Labels, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	po := parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(l, cfg.RenderOptions(l), po, log),
		log:    log,
		cfg:    cfg,
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
		o.log.Info("job queued", "job_id", job.ID, "file", job.Filename, "format", job.Format)
		return nil
	default:
		job.Fail("queue_full", fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize))
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// DeleteJob forgets a job and its artifact.
func (o *Orchestrator) DeleteJob(id string) bool {
	return o.jobs.Delete(id)
}

// ListJobs returns snapshots of every tracked job.
func (o *Orchestrator) ListJobs() []JobSnapshot {
	return o.jobs.List()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Worker returns the worker used by the queue, for synchronous requests.
func (o *Orchestrator) Worker() *Worker {
	return o.worker
}

// Stats summarizes the pipeline.
type Stats struct {
	Workers    int               `json:"workers"`
	QueueDepth int               `json:"queue_depth"`
	QueueSize  int               `json:"queue_size"`
	Jobs       int               `json:"jobs"`
	ByStatus   map[JobStatus]int `json:"by_status"`
	Bytes      int               `json:"bytes"`
}

func (o *Orchestrator) Stats() Stats {
	s := Stats{
		Workers:    o.cfg.WorkerCount,
		QueueDepth: len(o.queue),
		QueueSize:  cap(o.queue),
		ByStatus:   map[JobStatus]int{},
	}
	for _, snap := range o.jobs.List() {
		s.Jobs++
		s.ByStatus[snap.Status]++
		s.Bytes += snap.Progress.Bytes
	}
	return s
}
