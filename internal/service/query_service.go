package service

import (
	"context"
	"slices"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/internal/model"
)

// QueryService serves read-throughs to the metadata store. Nothing is cached.
type QueryService struct {
	store MetadataStore
}

func NewQueryService(store MetadataStore) *QueryService {
	return &QueryService{store: store}
}

func (s *QueryService) ready(op string) error {
	if !storeReady(s.store) {
		return apperr.New(apperr.KindServiceUnavailable, op, "metadata store not configured")
	}
	return nil
}

// ListUploads returns every upload, newest first.
func (s *QueryService) ListUploads(ctx context.Context) (*model.UploadList, error) {
	const op = "query.ListUploads"
	if err := s.ready(op); err != nil {
		return nil, err
	}

	files, err := s.store.ListUploads(ctx)
	if err != nil {
		return nil, readErr(op, "uploads", err)
	}
	if files == nil {
		files = []*model.UploadRecord{}
	}
	slices.SortStableFunc(files, func(a, b *model.UploadRecord) int {
		return b.UploadTime.Compare(a.UploadTime)
	})

	return &model.UploadList{Files: files, Total: len(files)}, nil
}

// GetUpload returns one upload with the results recorded for it.
func (s *QueryService) GetUpload(ctx context.Context, id string) (*model.UploadDetails, error) {
	const op = "query.GetUpload"
	if err := s.ready(op); err != nil {
		return nil, err
	}

	file, err := s.store.GetUpload(ctx, id)
	if err != nil {
		return nil, readErr(op, "file", err)
	}
	results, err := s.store.ListResultsByUpload(ctx, id)
	if err != nil {
		return nil, readErr(op, "results", err)
	}
	if results == nil {
		results = []*model.ResultRecord{}
	}

	return &model.UploadDetails{File: file, Results: results}, nil
}

// GetJobStatus returns the current status of a job.
func (s *QueryService) GetJobStatus(ctx context.Context, id string) (*model.JobStatusResponse, error) {
	const op = "query.GetJobStatus"
	if err := s.ready(op); err != nil {
		return nil, err
	}

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, readErr(op, "job", err)
	}
	return &model.JobStatusResponse{ID: job.ID, Status: job.Status}, nil
}

// GetResult returns the latest result of a job.
func (s *QueryService) GetResult(ctx context.Context, jobID string) (*model.ResultResponse, error) {
	const op = "query.GetResult"
	if err := s.ready(op); err != nil {
		return nil, err
	}

	res, err := s.store.GetResult(ctx, jobID)
	if err != nil {
		return nil, readErr(op, "results", err)
	}
	return &model.ResultResponse{ID: jobID, Results: res}, nil
}
