package model

import "time"

// Payload is an opaque JSON object owned by the ML service.
type Payload map[string]interface{}

// UploadRecord is a stored file and its processing lifecycle.
type UploadRecord struct {
	ID               string       `json:"id"`
	Filename         string       `json:"filename"`
	OriginalFilename string       `json:"originalFilename"`
	StorageKey       string       `json:"storageKey"`
	StorageLocation  string       `json:"storageLocation"`
	LocationID       *string      `json:"locationId,omitempty"`
	UploadTime       time.Time    `json:"uploadTime"`
	FileSize         int64        `json:"fileSize"`
	ContentType      string       `json:"contentType"`
	Status           UploadStatus `json:"status"`
	ProcessingResult Payload      `json:"processingResult,omitempty"`
	Error            *string      `json:"error,omitempty"`
}

// UploadPatch carries the fields of an UploadRecord to change.
// Nil fields are left untouched.
type UploadPatch struct {
	Status           *UploadStatus
	ProcessingResult Payload
	Error            *string
}

// ColumnMapping names the columns of the uploaded table the ML service should use.
type ColumnMapping struct {
	DateCol   string `json:"date_col" validate:"required"`
	MenuCol   string `json:"menu_col" validate:"required"`
	TargetCol string `json:"target_col" validate:"required"`
}

// UploadSummary is returned by a finished upload.
type UploadSummary struct {
	ID               string       `json:"id"`
	JobID            string       `json:"jobId"`
	StorageLocation  string       `json:"storageLocation"`
	Status           UploadStatus `json:"status"`
	ProcessingResult Payload      `json:"processingResult"`
	LocationID       string       `json:"locationId,omitempty"`
}

// UploadDetails is an upload together with the results recorded for it.
type UploadDetails struct {
	File    *UploadRecord   `json:"file"`
	Results []*ResultRecord `json:"results"`
}

// UploadList is the response for the file listing.
type UploadList struct {
	Files []*UploadRecord `json:"files"`
	Total int             `json:"total"`
}
