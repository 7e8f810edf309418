package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/internal/model"
	"github.com/forecastapp/api/internal/repository"
	"github.com/forecastapp/api/internal/storetest"
)

func TestGetJobStatus_NotFound(t *testing.T) {
	svc := NewQueryService(storetest.NewMemory())

	_, err := svc.GetJobStatus(context.Background(), "nonexistent")

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestQuery_Unconfigured(t *testing.T) {
	for _, store := range []MetadataStore{nil, repository.Disabled{}} {
		svc := NewQueryService(store)
		ctx := context.Background()

		_, err := svc.ListUploads(ctx)
		assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
		_, err = svc.GetJobStatus(ctx, "id")
		assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
		_, err = svc.GetResult(ctx, "id")
		assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
		_, err = svc.GetUpload(ctx, "id")
		assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
	}
}

func TestListUploads_NewestFirst(t *testing.T) {
	store := storetest.NewMemory()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 3, 1} {
		_, err := store.InsertUpload(ctx, &model.UploadRecord{
			Filename:   "f.csv",
			UploadTime: base.Add(time.Duration(offset) * time.Hour),
			Status:     model.UploadStatusUploaded,
		})
		require.NoError(t, err)
	}

	list, err := NewQueryService(store).ListUploads(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
	for i := 1; i < len(list.Files); i++ {
		assert.False(t, list.Files[i].UploadTime.After(list.Files[i-1].UploadTime))
	}
	assert.Equal(t, base.Add(3*time.Hour), list.Files[0].UploadTime)
}

func TestListUploads_Empty(t *testing.T) {
	list, err := NewQueryService(storetest.NewMemory()).ListUploads(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list.Files)
	assert.Equal(t, 0, list.Total)
}

func TestListUploads_StoreError(t *testing.T) {
	store := storetest.NewMemory()
	store.Fail["ListUploads"] = errors.New("connection lost")

	_, err := NewQueryService(store).ListUploads(context.Background())

	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestGetResultAndUpload(t *testing.T) {
	f := newUploadFixture()
	summary, err := f.svc.Submit(context.Background(), salesInput())
	require.NoError(t, err)

	res, err := f.query.GetResult(context.Background(), summary.JobID)
	require.NoError(t, err)
	assert.Equal(t, summary.JobID, res.ID)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, res.Results.Results["forecast"])

	details, err := f.query.GetUpload(context.Background(), summary.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, details.File.ID)
	assert.Len(t, details.Results, 1)

	_, err = f.query.GetResult(context.Background(), "nonexistent")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.query.GetUpload(context.Background(), "nonexistent")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestQuery_ReadsThrough(t *testing.T) {
	store := storetest.NewMemory()
	svc := NewQueryService(store)

	for i := 0; i < 3; i++ {
		_, _ = svc.GetJobStatus(context.Background(), "missing")
	}

	assert.Equal(t, 3, store.CallCount("GetJob"))
}
