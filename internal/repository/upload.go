package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/forecastapp/api/internal/model"
)

const uploadColumns = `id::text, filename, original_filename, storage_key, storage_location,
	location_id::text, upload_time, file_size, content_type, status, processing_result, error`

// InsertUpload stores a new upload and returns its generated id.
func (p *Postgres) InsertUpload(ctx context.Context, rec *model.UploadRecord) (string, error) {
	id := newID(rec.ID)
	if rec.UploadTime.IsZero() {
		rec.UploadTime = time.Now().UTC()
	}

	query := `
		INSERT INTO file_upload_tracker (id, filename, original_filename, storage_key,
			storage_location, location_id, upload_time, file_size, content_type, status,
			processing_result, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := p.db.Exec(ctx, query,
		id, rec.Filename, rec.OriginalFilename, rec.StorageKey, rec.StorageLocation,
		rec.LocationID, rec.UploadTime, rec.FileSize, rec.ContentType, string(rec.Status),
		rec.ProcessingResult, rec.Error,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert upload: %w", err)
	}
	rec.ID = id
	return id, nil
}

// UpdateUpload applies the non-nil fields of patch.
func (p *Postgres) UpdateUpload(ctx context.Context, id string, patch model.UploadPatch) error {
	if !validID(id) {
		return ErrNotFound
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.ProcessingResult != nil {
		add("processing_result", patch.ProcessingResult)
	}
	if patch.Error != nil {
		add("error", *patch.Error)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE file_upload_tracker SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUploads returns every upload, newest first.
func (p *Postgres) ListUploads(ctx context.Context) ([]*model.UploadRecord, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+uploadColumns+` FROM file_upload_tracker ORDER BY upload_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	uploads := []*model.UploadRecord{}
	for rows.Next() {
		rec, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}

// GetUpload returns one upload by id.
func (p *Postgres) GetUpload(ctx context.Context, id string) (*model.UploadRecord, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	rec, err := scanUpload(p.db.QueryRow(ctx,
		`SELECT `+uploadColumns+` FROM file_upload_tracker WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return rec, nil
}

func scanUpload(row pgx.Row) (*model.UploadRecord, error) {
	rec := &model.UploadRecord{}
	var status string
	err := row.Scan(
		&rec.ID, &rec.Filename, &rec.OriginalFilename, &rec.StorageKey, &rec.StorageLocation,
		&rec.LocationID, &rec.UploadTime, &rec.FileSize, &rec.ContentType, &status,
		&rec.ProcessingResult, &rec.Error,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = model.UploadStatus(status)
	return rec, nil
}
