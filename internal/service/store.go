package service

import (
	"context"
	"errors"
	"time"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/internal/model"
	"github.com/forecastapp/api/internal/repository"
)

// MetadataStore persists uploads, jobs and results. It holds no
// transition logic; callers decide which status comes next.
type MetadataStore interface {
	IsConfigured() bool
	LocationName(ctx context.Context, id string) (string, error)
	InsertUpload(ctx context.Context, rec *model.UploadRecord) (string, error)
	UpdateUpload(ctx context.Context, id string, patch model.UploadPatch) error
	ListUploads(ctx context.Context) ([]*model.UploadRecord, error)
	GetUpload(ctx context.Context, id string) (*model.UploadRecord, error)
	InsertJob(ctx context.Context, job *model.JobRecord) (string, error)
	UpdateJob(ctx context.Context, id string, patch model.JobPatch) error
	GetJob(ctx context.Context, id string) (*model.JobRecord, error)
	InsertResult(ctx context.Context, res *model.ResultRecord) (string, error)
	GetResult(ctx context.Context, jobID string) (*model.ResultRecord, error)
	ListResultsByUpload(ctx context.Context, uploadID string) ([]*model.ResultRecord, error)
}

var (
	_ MetadataStore = (*repository.Postgres)(nil)
	_ MetadataStore = repository.Disabled{}
)

func storeReady(store MetadataStore) bool {
	return store != nil && store.IsConfigured()
}

// readErr classifies an error from a store read.
func readErr(op, what string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, op, what+" not found", err)
	case errors.Is(err, repository.ErrStoreUnavailable):
		return apperr.Wrap(apperr.KindServiceUnavailable, op, "metadata store not configured", err)
	default:
		return apperr.Wrap(apperr.KindInternal, op, "failed to read "+what, err)
	}
}

// withStep bounds a single external call. A zero timeout only inherits ctx.
func withStep(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func strPtr(s string) *string { return &s }
