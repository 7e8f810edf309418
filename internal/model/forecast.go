package model

// ForecastRequest represents the request body for an on-demand forecast
type ForecastRequest struct {
	Data            []map[string]interface{} `json:"data" validate:"required,min=1"`
	ModelType       string                   `json:"model_type" validate:"required"`
	ForecastHorizon int                      `json:"forecast_horizon" validate:"required,min=1,max=365"`
	FeatureGroups   []string                 `json:"feature_groups"`
	TargetCol       string                   `json:"target_col" validate:"required"`
	DateCol         string                   `json:"date_col" validate:"required"`
	MenuCol         string                   `json:"menu_col" validate:"required"`
	UploadID        string                   `json:"upload_id,omitempty" validate:"omitempty,uuid"`
}

// JobConfig returns the request without its data rows, for storing on the job.
func (r *ForecastRequest) JobConfig() Payload {
	groups := r.FeatureGroups
	if groups == nil {
		groups = []string{}
	}
	return Payload{
		"model_type":       r.ModelType,
		"forecast_horizon": r.ForecastHorizon,
		"feature_groups":   groups,
		"target_col":       r.TargetCol,
		"date_col":         r.DateCol,
		"menu_col":         r.MenuCol,
		"rows":             len(r.Data),
	}
}

// ForecastResponse represents the response for an on-demand forecast
type ForecastResponse struct {
	JobID   string    `json:"jobId"`
	Status  JobStatus `json:"status"`
	Results Payload   `json:"results"`
}

// PreviewResponse describes the first rows of an uploaded table.
type PreviewResponse struct {
	Columns   []string            `json:"columns"`
	Preview   []map[string]string `json:"preview"`
	TotalRows interface{}         `json:"total_rows"`
}
