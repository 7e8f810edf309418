package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/metrics"
	"github.com/forecastapp/api/internal/model"
	"github.com/forecastapp/api/internal/repository"
)

// UploadInput is one file submitted for processing.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        []byte
	Columns     model.ColumnMapping
	LocationID  string
	UserID      string
}

// UploadService drives an upload through storage, metadata and processing.
type UploadService struct {
	store       MetadataStore
	objects     client.ObjectStore
	processor   client.Processor
	stepTimeout time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewUploadService creates a new upload orchestrator
func NewUploadService(store MetadataStore, objects client.ObjectStore, processor client.Processor, stepTimeout time.Duration, logger zerolog.Logger) *UploadService {
	return &UploadService{
		store:       store,
		objects:     objects,
		processor:   processor,
		stepTimeout: stepTimeout,
		logger:      logger.With().Str("component", "upload").Logger(),
		now:         time.Now,
	}
}

// missing names every dependency that is not configured.
func (s *UploadService) missing() []string {
	var names []string
	if !storeReady(s.store) {
		names = append(names, "metadata store")
	}
	if s.objects == nil || !s.objects.IsConfigured() {
		names = append(names, "object store")
	}
	if s.processor == nil || !s.processor.IsConfigured() {
		names = append(names, "processing service")
	}
	return names
}

// Submit stores the file, records it, and runs it through the ML service.
// Once it returns, the upload is in a terminal status unless the terminal
// status write itself failed.
func (s *UploadService) Submit(ctx context.Context, in *UploadInput) (*model.UploadSummary, error) {
	const op = "upload.Submit"

	if missing := s.missing(); len(missing) > 0 {
		return nil, apperr.New(apperr.KindServiceUnavailable, op, strings.Join(missing, ", ")+" not configured")
	}

	log := s.logger.With().Str("filename", in.Filename).Logger()
	at := s.now().UTC()

	prefix := "uploads"
	var locationID *string
	if in.LocationID != "" {
		name, err := s.locationName(ctx, in.LocationID)
		if err != nil {
			return nil, err
		}
		prefix = "raw/" + name
		locationID = strPtr(in.LocationID)
	}

	key := client.ObjectKey(prefix, at, in.Filename)
	location, err := s.put(ctx, key, in)
	if err != nil {
		metrics.ObserveUpload(string(model.UploadStatusUploadFailed))
		log.Error().Err(err).Str("key", key).Msg("storage write failed")
		return nil, apperr.Wrap(apperr.KindStorageWrite, op, "failed to store file", err)
	}
	log.Info().Str("location", location).Msg("file stored")

	rec := &model.UploadRecord{
		Filename:         client.StampedFilename(at, in.Filename),
		OriginalFilename: in.Filename,
		StorageKey:       key,
		StorageLocation:  location,
		LocationID:       locationID,
		UploadTime:       at,
		FileSize:         int64(len(in.Body)),
		ContentType:      in.ContentType,
		Status:           model.UploadStatusUploaded,
	}
	uploadID, err := s.store.InsertUpload(ctx, rec)
	if err != nil {
		metrics.ObserveUpload(string(model.UploadStatusUploadFailed))
		log.Error().Err(err).Str("location", location).Msg("upload metadata insert failed, stored object orphaned")
		return nil, apperr.Wrap(apperr.KindMetadataWrite, op, "failed to record upload", err)
	}
	log = log.With().Str("upload_id", uploadID).Logger()

	tracker := &uploadTracker{store: s.store, id: uploadID, status: model.UploadStatusUploaded, log: log}

	job := &model.JobRecord{
		UploadID:  strPtr(uploadID),
		UserID:    in.UserID,
		Config:    jobConfig(in),
		Status:    model.JobStatusProcessing,
		CreatedAt: at,
	}
	jobID, err := s.store.InsertJob(ctx, job)
	if err != nil {
		// advisory, non-blocking
		tracker.advance(ctx, model.UploadStatusUploadFailed, nil, err.Error())
		metrics.ObserveUpload(string(model.UploadStatusUploadFailed))
		return nil, apperr.Wrap(apperr.KindMetadataWrite, op, "failed to record job", err)
	}
	log = log.With().Str("job_id", jobID).Logger()
	tracker.log = log

	// advisory, non-blocking
	tracker.advance(ctx, model.UploadStatusProcessing, nil, "")

	payload, err := s.process(ctx, &client.ProcessFileRequest{
		FilePath:   location,
		Filename:   rec.Filename,
		UploadTime: at.Format(client.KeyTimeFormat),
		FileID:     uploadID,
		DateCol:    in.Columns.DateCol,
		MenuCol:    in.Columns.MenuCol,
		TargetCol:  in.Columns.TargetCol,
		LocationID: in.LocationID,
	})
	if err != nil {
		log.Error().Err(err).Msg("processing failed")
		// advisory, non-blocking
		tracker.advance(ctx, model.UploadStatusProcessingFailed, nil, err.Error())
		finishJob(ctx, s.store, jobID, model.JobStatusFailed, s.now().UTC(), log)
		metrics.ObserveUpload(string(model.UploadStatusProcessingFailed))
		return nil, apperr.Wrap(apperr.KindProcessing, op, "processing service failed", err)
	}

	// advisory, non-blocking
	tracker.advance(ctx, model.UploadStatusCompleted, payload, "")
	if finishJob(ctx, s.store, jobID, model.JobStatusCompleted, s.now().UTC(), log) {
		recordResult(ctx, s.store, model.NewResultRecord(jobID, strPtr(uploadID), payload), log)
	}
	metrics.ObserveUpload(string(model.UploadStatusCompleted))
	log.Info().Msg("upload processed")

	return &model.UploadSummary{
		ID:               uploadID,
		JobID:            jobID,
		StorageLocation:  location,
		Status:           model.UploadStatusCompleted,
		ProcessingResult: payload,
		LocationID:       in.LocationID,
	}, nil
}

func (s *UploadService) locationName(ctx context.Context, id string) (string, error) {
	const op = "upload.Submit"
	name, err := s.store.LocationName(ctx, id)
	if err == nil {
		return name, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.Wrap(apperr.KindNotFound, op, "location "+id+" not found", err)
	}
	return "", readErr(op, "location", err)
}

func (s *UploadService) put(ctx context.Context, key string, in *UploadInput) (string, error) {
	ctx, cancel := withStep(ctx, s.stepTimeout)
	defer cancel()
	return s.objects.Put(ctx, key, bytes.NewReader(in.Body), in.ContentType)
}

func (s *UploadService) process(ctx context.Context, req *client.ProcessFileRequest) (model.Payload, error) {
	ctx, cancel := withStep(ctx, s.stepTimeout)
	defer cancel()
	return s.processor.ProcessFile(ctx, req)
}

func jobConfig(in *UploadInput) model.Payload {
	cfg := model.Payload{
		"date_col":   in.Columns.DateCol,
		"menu_col":   in.Columns.MenuCol,
		"target_col": in.Columns.TargetCol,
		"filename":   in.Filename,
	}
	if in.LocationID != "" {
		cfg["location_id"] = in.LocationID
	}
	return cfg
}

// uploadTracker holds the furthest status attempted for one upload and
// refuses to move it backwards. A failed write still counts as attempted,
// so the terminal write is never blocked by a lost intermediate one.
type uploadTracker struct {
	store  MetadataStore
	id     string
	status model.UploadStatus
	log    zerolog.Logger
}

// advance is an advisory status write. Its error is logged and returned
// for callers that care, but the pipeline never fails because of it.
func (t *uploadTracker) advance(ctx context.Context, next model.UploadStatus, result model.Payload, errText string) error {
	if !t.status.CanTransitionTo(next) {
		t.log.Warn().Str("from", string(t.status)).Str("to", string(next)).Msg("refusing status transition")
		return nil
	}

	patch := model.UploadPatch{Status: &next, ProcessingResult: result}
	if errText != "" {
		patch.Error = strPtr(errText)
	}
	t.status = next
	if err := t.store.UpdateUpload(ctx, t.id, patch); err != nil {
		t.log.Warn().Err(err).Str("status", string(next)).Msg("advisory status update failed")
		return err
	}
	return nil
}

// finishJob marks a job terminal. It reports whether the write persisted.
func finishJob(ctx context.Context, store MetadataStore, id string, status model.JobStatus, at time.Time, log zerolog.Logger) bool {
	if err := store.UpdateJob(ctx, id, model.JobPatch{Status: &status, CompletedAt: &at}); err != nil {
		log.Warn().Err(err).Str("status", string(status)).Msg("advisory job update failed")
		return false
	}
	return true
}

func recordResult(ctx context.Context, store MetadataStore, res *model.ResultRecord, log zerolog.Logger) {
	if _, err := store.InsertResult(ctx, res); err != nil {
		log.Error().Err(err).Msg("failed to record result, processing output not durable")
	}
}
