package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/email"
	"github.com/hollowaybooks/folio/internal/events"
	"github.com/hollowaybooks/folio/internal/repository"
	"github.com/hollowaybooks/folio/internal/service"
)

// Store is the subset of the repository the worker needs: the job queue plus
// the reads its job handlers perform.
type Store interface {
	ClaimNextJob(ctx context.Context) (*repository.Job, error)
	CompleteJob(ctx context.Context, id uuid.UUID) error
	FailJob(ctx context.Context, id uuid.UUID, jobErr string, maxAttempts int32, retryDelay time.Duration) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListLowStockVariants(ctx context.Context, threshold int32) ([]repository.LowStockVariant, error)
}

// Config holds worker configuration.
type Config struct {
	// WorkerID uniquely identifies this worker instance in logs.
	WorkerID string

	// PollInterval is how often to check for due jobs.
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs processed at once.
	MaxConcurrency int

	// MaxAttempts is how many times a job runs before landing in failed.
	MaxAttempts int32

	// RetryDelay is how long a failed job waits before its next attempt.
	RetryDelay time.Duration

	// JobTimeout bounds a single job execution.
	JobTimeout time.Duration

	// LowStockThreshold is the stock level at or below which the low stock
	// scan alerts.
	LowStockThreshold int32

	// AlertEmail receives inventory alerts. Empty disables the emails but
	// events are still published.
	AlertEmail string
}

// Worker polls the job queue and processes background jobs.
type Worker struct {
	config    Config
	store     Store
	emails    *email.Service
	publisher events.Publisher
	logger    *slog.Logger
}

// NewWorker creates a background job worker.
func NewWorker(store Store, emails *email.Service, publisher events.Publisher, config Config, logger *slog.Logger) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = "worker-" + uuid.New().String()[:8]
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Minute
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = 30 * time.Second
	}
	if config.LowStockThreshold == 0 {
		config.LowStockThreshold = 5
	}

	return &Worker{
		config:    config,
		store:     store,
		emails:    emails,
		publisher: publisher,
		logger:    logger,
	}
}

// Start processes jobs until the context is cancelled, then waits for
// in-flight jobs to finish.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.config.MaxConcurrency)
	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			// Drain the queue up to the concurrency limit each tick so a
			// burst of jobs does not wait one poll interval per job.
			for w.claimOne(ctx, sem, &wg) {
			}
		}
	}
}

// claimOne claims a single job and processes it on a goroutine. It reports
// whether a job was claimed; the semaphore slot is released on all other
// paths.
func (w *Worker) claimOne(ctx context.Context, sem chan struct{}, wg *sync.WaitGroup) bool {
	select {
	case sem <- struct{}{}:
	default:
		// At max concurrency.
		return false
	}

	job, err := w.store.ClaimNextJob(ctx)
	if err != nil {
		w.logger.Error("failed to claim job", "error", err)
		<-sem
		return false
	}
	if job == nil {
		<-sem
		return false
	}

	wg.Add(1)
	go func() {
		defer func() {
			<-sem
			wg.Done()
		}()
		w.process(ctx, job)
	}()
	return true
}

func (w *Worker) process(ctx context.Context, job *repository.Job) {
	w.logger.Info("processing job",
		"job_id", job.ID,
		"job_type", job.JobType,
		"attempt", job.Attempts,
	)

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	if err := w.dispatch(jobCtx, job); err != nil {
		w.logger.Error("job failed",
			"job_id", job.ID,
			"job_type", job.JobType,
			"attempt", job.Attempts,
			"error", err,
		)
		if failErr := w.store.FailJob(ctx, job.ID, err.Error(), w.config.MaxAttempts, w.config.RetryDelay); failErr != nil {
			w.logger.Error("failed to record job failure", "job_id", job.ID, "error", failErr)
		}
		return
	}

	if err := w.store.CompleteJob(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job complete", "job_id", job.ID, "error", err)
		return
	}
	w.logger.Info("job completed", "job_id", job.ID, "job_type", job.JobType)
}

func (w *Worker) dispatch(ctx context.Context, job *repository.Job) error {
	switch job.JobType {
	case service.JobOrderConfirmationEmail, service.JobOrderStatusEmail, service.JobRefundNoticeEmail:
		return w.processEmailJob(ctx, job)
	case service.JobLowStockScan:
		return w.processLowStockScan(ctx)
	default:
		return fmt.Errorf("unknown job type: %s", job.JobType)
	}
}
