package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/model"
)

// ForecastService runs an on-demand forecast over rows sent by the client
// and records it as a job.
type ForecastService struct {
	store       MetadataStore
	processor   client.Processor
	stepTimeout time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

func NewForecastService(store MetadataStore, processor client.Processor, stepTimeout time.Duration, logger zerolog.Logger) *ForecastService {
	return &ForecastService{
		store:       store,
		processor:   processor,
		stepTimeout: stepTimeout,
		logger:      logger.With().Str("component", "forecast").Logger(),
		now:         time.Now,
	}
}

// Forecast inserts a processing job, calls the ML service and records the outcome.
func (s *ForecastService) Forecast(ctx context.Context, userID string, req *model.ForecastRequest) (*model.ForecastResponse, error) {
	const op = "forecast.Forecast"

	var missing []string
	if !storeReady(s.store) {
		missing = append(missing, "metadata store")
	}
	if s.processor == nil || !s.processor.IsConfigured() {
		missing = append(missing, "processing service")
	}
	if len(missing) > 0 {
		return nil, apperr.New(apperr.KindServiceUnavailable, op, strings.Join(missing, ", ")+" not configured")
	}

	job := &model.JobRecord{
		UserID:    userID,
		Config:    req.JobConfig(),
		Status:    model.JobStatusProcessing,
		CreatedAt: s.now().UTC(),
	}
	if req.UploadID != "" {
		if _, err := s.store.GetUpload(ctx, req.UploadID); err != nil {
			return nil, readErr(op, "upload", err)
		}
		job.UploadID = strPtr(req.UploadID)
	}
	jobID, err := s.store.InsertJob(ctx, job)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindMetadataWrite, op, "failed to record job", err)
	}
	log := s.logger.With().Str("job_id", jobID).Str("user_id", userID).Logger()

	callCtx, cancel := withStep(ctx, s.stepTimeout)
	payload, err := s.processor.Forecast(callCtx, req)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("forecast failed")
		// advisory, non-blocking
		finishJob(ctx, s.store, jobID, model.JobStatusFailed, s.now().UTC(), log)
		return nil, apperr.Wrap(apperr.KindProcessing, op, "processing service failed", err)
	}

	// advisory, non-blocking
	if finishJob(ctx, s.store, jobID, model.JobStatusCompleted, s.now().UTC(), log) {
		recordResult(ctx, s.store, model.NewResultRecord(jobID, job.UploadID, payload), log)
	}
	log.Info().Msg("forecast completed")

	return &model.ForecastResponse{
		JobID:   jobID,
		Status:  model.JobStatusCompleted,
		Results: payload,
	}, nil
}
