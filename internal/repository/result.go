package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/forecastapp/api/internal/model"
)

const resultColumns = `id::text, job_id::text, upload_id::text, results, performance_metrics,
	model_info, created_at`

// InsertResult stores a result and returns its generated id.
func (p *Postgres) InsertResult(ctx context.Context, res *model.ResultRecord) (string, error) {
	id := newID(res.ID)
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO forecast_results (id, job_id, upload_id, results, performance_metrics,
			model_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.Exec(ctx, query,
		id, res.JobID, res.UploadID, orEmpty(res.Results), orEmpty(res.PerformanceMetrics),
		orEmpty(res.ModelInfo), res.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert result: %w", err)
	}
	res.ID = id
	return id, nil
}

// GetResult returns the most recent result of a job.
func (p *Postgres) GetResult(ctx context.Context, jobID string) (*model.ResultRecord, error) {
	if !validID(jobID) {
		return nil, ErrNotFound
	}

	res, err := scanResult(p.db.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM forecast_results WHERE job_id = $1
		ORDER BY created_at DESC LIMIT 1`, jobID))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return res, nil
}

// ListResultsByUpload returns the results recorded for an upload, oldest first.
func (p *Postgres) ListResultsByUpload(ctx context.Context, uploadID string) ([]*model.ResultRecord, error) {
	results := []*model.ResultRecord{}
	if !validID(uploadID) {
		return results, nil
	}

	rows, err := p.db.Query(ctx,
		`SELECT `+resultColumns+` FROM forecast_results WHERE upload_id = $1
		ORDER BY created_at`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func scanResult(row pgx.Row) (*model.ResultRecord, error) {
	res := &model.ResultRecord{}
	err := row.Scan(
		&res.ID, &res.JobID, &res.UploadID, &res.Results, &res.PerformanceMetrics,
		&res.ModelInfo, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func orEmpty(p model.Payload) model.Payload {
	if p == nil {
		return model.Payload{}
	}
	return p
}
