// pkg/pipeline/worker.go

package pipeline

import (
	"context"
	"log/slog"
	"sync"
)

// Job represents a unit of work to be processed
type Job interface {
	Process(ctx context.Context) error
	ID() string
}

// WorkerPool manages a pool of workers for processing jobs
type WorkerPool struct {
	numWorkers int
	jobs       chan Job
	results    chan error
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(numWorkers int, queueSize int, logger *slog.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, queueSize),
		results:    make(chan error, queueSize),
		logger:     logger,
	}
}

// Start initializes the worker pool and begins processing jobs
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Submit adds a new job to the pool
func (p *WorkerPool) Submit(job Job) {
	p.jobs <- job
}

// Stop gracefully shuts down the worker pool
func (p *WorkerPool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the channel for receiving job results
func (p *WorkerPool) Results() <-chan error {
	return p.results
}

// worker processes jobs from the pool
func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		select {
		case <-ctx.Done():
			p.logger.Debug("worker stopping, context cancelled", "worker", id)
			return
		default:
			p.logger.Debug("worker processing job", "worker", id, "job", job.ID())
			err := job.Process(ctx)
			if err != nil {
				p.logger.Error("job failed", "worker", id, "job", job.ID(), "error", err)
			}
			p.results <- err
		}
	}
}

// ReportJob implements the Job interface for one station report
type ReportJob struct {
	id        string
	ProcessFn func(ctx context.Context) error
}

// NewReportJob creates a new report processing job
func NewReportJob(id string, fn func(ctx context.Context) error) *ReportJob {
	return &ReportJob{
		id:        id,
		ProcessFn: fn,
	}
}

// Process executes the job's processing function
func (j *ReportJob) Process(ctx context.Context) error {
	return j.ProcessFn(ctx)
}

// ID returns the job's identifier
func (j *ReportJob) ID() string {
	return j.id
}
