package model

import "time"

// ResultRecord is the durable output of a completed job. Immutable once written.
type ResultRecord struct {
	ID                 string    `json:"id"`
	JobID              string    `json:"jobId"`
	UploadID           *string   `json:"uploadId,omitempty"`
	Results            Payload   `json:"results"`
	PerformanceMetrics Payload   `json:"performanceMetrics"`
	ModelInfo          Payload   `json:"modelInfo"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ResultResponse represents the response for a result lookup
type ResultResponse struct {
	ID      string        `json:"id"`
	Results *ResultRecord `json:"results"`
}

// NewResultRecord splits an ML payload into a ResultRecord.
// Metrics and model info are lifted out of the payload when present;
// the full payload is always kept as the results.
func NewResultRecord(jobID string, uploadID *string, payload Payload) *ResultRecord {
	rec := &ResultRecord{
		JobID:              jobID,
		UploadID:           uploadID,
		Results:            payload,
		PerformanceMetrics: Payload{},
		ModelInfo:          Payload{},
	}
	for _, key := range []string{"performance_metrics", "metrics"} {
		if m, ok := payload[key].(map[string]interface{}); ok {
			rec.PerformanceMetrics = m
			break
		}
	}
	if m, ok := payload["model_info"].(map[string]interface{}); ok {
		rec.ModelInfo = m
	}
	if rec.Results == nil {
		rec.Results = Payload{}
	}
	return rec
}
