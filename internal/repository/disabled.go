package repository

import (
	"context"

	"github.com/forecastapp/api/internal/model"
)

// Disabled stands in for the store when no database is configured.
type Disabled struct{}

func (Disabled) IsConfigured() bool { return false }

func (Disabled) LocationName(context.Context, string) (string, error) {
	return "", ErrStoreUnavailable
}

func (Disabled) InsertUpload(context.Context, *model.UploadRecord) (string, error) {
	return "", ErrStoreUnavailable
}

func (Disabled) UpdateUpload(context.Context, string, model.UploadPatch) error {
	return ErrStoreUnavailable
}

func (Disabled) ListUploads(context.Context) ([]*model.UploadRecord, error) {
	return nil, ErrStoreUnavailable
}

func (Disabled) GetUpload(context.Context, string) (*model.UploadRecord, error) {
	return nil, ErrStoreUnavailable
}

func (Disabled) InsertJob(context.Context, *model.JobRecord) (string, error) {
	return "", ErrStoreUnavailable
}

func (Disabled) UpdateJob(context.Context, string, model.JobPatch) error {
	return ErrStoreUnavailable
}

func (Disabled) GetJob(context.Context, string) (*model.JobRecord, error) {
	return nil, ErrStoreUnavailable
}

func (Disabled) InsertResult(context.Context, *model.ResultRecord) (string, error) {
	return "", ErrStoreUnavailable
}

func (Disabled) GetResult(context.Context, string) (*model.ResultRecord, error) {
	return nil, ErrStoreUnavailable
}

func (Disabled) ListResultsByUpload(context.Context, string) ([]*model.ResultRecord, error) {
	return nil, ErrStoreUnavailable
}
