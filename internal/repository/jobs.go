package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JobStatus is the lifecycle of a queued background job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is a row in the database-backed work queue.
type Job struct {
	ID        uuid.UUID
	JobType   string
	Payload   []byte
	Status    JobStatus
	RunAt     time.Time
	Attempts  int32
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnqueueJob inserts a pending job to run at the given time.
func (q *Queries) EnqueueJob(ctx context.Context, jobType string, payload []byte, runAt time.Time) (*Job, error) {
	var j Job
	err := q.db.QueryRow(ctx, `
		INSERT INTO jobs (job_type, payload, run_at)
		VALUES ($1, $2, $3)
		RETURNING id, job_type, payload, status, run_at, attempts, last_error, created_at, updated_at`,
		jobType, payload, runAt).
		Scan(&j.ID, &j.JobType, &j.Payload, &j.Status, &j.RunAt, &j.Attempts, &j.LastError,
			&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	return &j, nil
}

// ClaimNextJob atomically claims the oldest due pending job. SKIP LOCKED lets
// multiple workers poll the same table without contending. Returns nil when
// no job is due.
func (q *Queries) ClaimNextJob(ctx context.Context) (*Job, error) {
	var j Job
	err := q.db.QueryRow(ctx, `
		UPDATE jobs
		SET status = $1, attempts = attempts + 1, updated_at = now()
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = $2 AND run_at <= now()
			ORDER BY run_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, job_type, payload, status, run_at, attempts, last_error, created_at, updated_at`,
		JobProcessing, JobPending).
		Scan(&j.ID, &j.JobType, &j.Payload, &j.Status, &j.RunAt, &j.Attempts, &j.LastError,
			&j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	return &j, nil
}

// CompleteJob marks a claimed job done.
func (q *Queries) CompleteJob(ctx context.Context, id uuid.UUID) error {
	if _, err := q.db.Exec(ctx, `
		UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`,
		id, JobCompleted); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// FailJob records the error. Jobs with attempts remaining go back to pending
// with a delayed run_at; exhausted jobs land in failed for inspection.
func (q *Queries) FailJob(ctx context.Context, id uuid.UUID, jobErr string, maxAttempts int32, retryDelay time.Duration) error {
	if _, err := q.db.Exec(ctx, `
		UPDATE jobs
		SET status = CASE WHEN attempts >= $2 THEN $3::text ELSE $4::text END,
			run_at = now() + $5,
			last_error = $6,
			updated_at = now()
		WHERE id = $1`,
		id, maxAttempts, JobFailed, JobPending, retryDelay, jobErr); err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}
