package model

// UploadStatus tracks an upload through the processing pipeline.
type UploadStatus string

const (
	UploadStatusUploaded         UploadStatus = "uploaded"
	UploadStatusProcessing       UploadStatus = "processing"
	UploadStatusCompleted        UploadStatus = "completed"
	UploadStatusProcessingFailed UploadStatus = "processing_failed"
	UploadStatusUploadFailed     UploadStatus = "upload_failed"
)

var uploadTransitions = map[UploadStatus][]UploadStatus{
	UploadStatusUploaded:   {UploadStatusProcessing, UploadStatusUploadFailed},
	UploadStatusProcessing: {UploadStatusCompleted, UploadStatusProcessingFailed, UploadStatusUploadFailed},
}

// CanTransitionTo reports whether next is a forward step from s.
// Terminal statuses have no successors.
func (s UploadStatus) CanTransitionTo(next UploadStatus) bool {
	for _, allowed := range uploadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s UploadStatus) IsTerminal() bool {
	switch s {
	case UploadStatusCompleted, UploadStatusProcessingFailed, UploadStatusUploadFailed:
		return true
	}
	return false
}

// JobStatus tracks a forecast job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether the job has finished.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Availability labels used by the service health endpoint.
const (
	Available   = "available"
	Unavailable = "unavailable"
)
