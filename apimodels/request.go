package apimodels

type AnalysisRequest struct {
	// Log is the raw error log to analyze
	Log string `json:"log"`
}
