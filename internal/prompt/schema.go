package prompt

import "github.com/sozercan/log-doctor/internal/llm"

var noAdditional = false

// analysisSchema is the shape every model answer must take. The property
// names are part of the wire contract with the model.
var analysisSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"rootCause": {
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"title": {
					Type:        llm.TypeString,
					Description: "A concise, one-sentence title naming the core problem.",
				},
				"explanation": {
					Type:        llm.TypeString,
					Description: "A detailed but easy to follow explanation of what went wrong and why, based on the error stack.",
				},
			},
			Required:             []string{"title", "explanation"},
			AdditionalProperties: &noAdditional,
		},
		"solutions": {
			Type:        llm.TypeArray,
			Description: "A list of concrete, step-by-step solutions that fix the problem. Provide at least two different solutions when possible.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"title": {
						Type:        llm.TypeString,
						Description: "A short descriptive title for the solution (for example, 'Update the custom node').",
					},
					"steps": {
						Type:        llm.TypeArray,
						Description: "Ordered steps the user follows. Wrap file paths, commands and package names in Markdown `code` backticks.",
						Items:       &llm.Schema{Type: llm.TypeString},
					},
				},
				Required:             []string{"title", "steps"},
				AdditionalProperties: &noAdditional,
			},
		},
	},
	Required:             []string{"rootCause", "solutions"},
	AdditionalProperties: &noAdditional,
}

// AnalysisSchema returns the response schema shared by every request. The
// returned value is read-only.
func AnalysisSchema() *llm.Schema {
	return analysisSchema
}
