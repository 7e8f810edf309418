package model

import "time"

// JobRecord is a single forecast-processing request.
type JobRecord struct {
	ID          string     `json:"id"`
	UploadID    *string    `json:"uploadId,omitempty"`
	UserID      string     `json:"userId"`
	Config      Payload    `json:"config"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// JobPatch carries the fields of a JobRecord to change.
type JobPatch struct {
	Status      *JobStatus
	CompletedAt *time.Time
}

// JobStatusResponse represents the response for a job status lookup
type JobStatusResponse struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}
