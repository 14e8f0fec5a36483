package apimodels

// Analysis is the structured diagnostic report produced for one log.
type Analysis struct {
	RootCause RootCause  `json:"rootCause" yaml:"rootCause"`
	Solutions []Solution `json:"solutions" yaml:"solutions"`
}

type RootCause struct {
	// One sentence naming the core problem
	Title string `json:"title" yaml:"title"`

	// Why the error happened, based on the stack trace
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Solution is a named, ordered list of remediation steps.
type Solution struct {
	Title string   `json:"title" yaml:"title"`
	Steps []string `json:"steps" yaml:"steps"`
}

type AnalysisResponse struct {
	// The validated analysis
	Analysis *Analysis `json:"analysis"`

	// Metadata about the analysis
	Metadata AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	// Unique identifier of this analysis
	ID string `json:"id"`

	// Time taken for analysis
	Duration string `json:"duration"`

	// Provider that served the request (gemini, openai, azure, bedrock)
	Provider string `json:"provider"`

	// Model used for analysis
	Model string `json:"model"`
}

// ErrorResponse is returned by the JSON API when an analysis cannot be produced.
type ErrorResponse struct {
	Error string `json:"error"`

	// One of invalid_request, transport_failure, malformed_response
	Kind string `json:"kind"`
}
