package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/forecastapp/api/internal/model"
)

// InsertJob stores a new job and returns its generated id.
func (p *Postgres) InsertJob(ctx context.Context, job *model.JobRecord) (string, error) {
	id := newID(job.ID)
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	cfg := job.Config
	if cfg == nil {
		cfg = model.Payload{}
	}

	query := `
		INSERT INTO forecast_jobs (id, upload_id, user_id, config, status, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.Exec(ctx, query,
		id, job.UploadID, job.UserID, cfg, string(job.Status), job.CreatedAt, job.CompletedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert job: %w", err)
	}
	job.ID = id
	return id, nil
}

// UpdateJob applies the non-nil fields of patch.
func (p *Postgres) UpdateJob(ctx context.Context, id string, patch model.JobPatch) error {
	if !validID(id) {
		return ErrNotFound
	}

	var sets []string
	var args []any
	if patch.Status != nil {
		args = append(args, string(*patch.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.CompletedAt != nil {
		args = append(args, *patch.CompletedAt)
		sets = append(sets, fmt.Sprintf("completed_at = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE forecast_jobs SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJob returns one job by id.
func (p *Postgres) GetJob(ctx context.Context, id string) (*model.JobRecord, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	query := `
		SELECT id::text, upload_id::text, user_id, config, status, created_at, completed_at
		FROM forecast_jobs
		WHERE id = $1`

	job := &model.JobRecord{}
	var status string
	err := p.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UploadID, &job.UserID, &job.Config, &status, &job.CreatedAt, &job.CompletedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	job.Status = model.JobStatus(status)
	return job, nil
}
