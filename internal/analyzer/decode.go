package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sozercan/log-doctor/apimodels"
)

// wireAnalysis mirrors apimodels.Analysis with pointers so absent fields can
// be told apart from empty ones.
type wireAnalysis struct {
	RootCause *struct {
		Title       *string `json:"title"`
		Explanation *string `json:"explanation"`
	} `json:"rootCause"`
	Solutions *[]*struct {
		Title *string   `json:"title"`
		Steps *[]string `json:"steps"`
	} `json:"solutions"`
}

// Decode parses a model answer and checks it against the analysis schema. Any
// syntax error, wrong value kind or missing required field yields
// ErrMalformedResponse; a partially populated Analysis is never returned.
func Decode(text string) (*apimodels.Analysis, error) {
	var w wireAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	switch {
	case w.RootCause == nil:
		return nil, malformed("rootCause is missing")
	case w.RootCause.Title == nil || *w.RootCause.Title == "":
		return nil, malformed("rootCause.title is missing")
	case w.RootCause.Explanation == nil || *w.RootCause.Explanation == "":
		return nil, malformed("rootCause.explanation is missing")
	case w.Solutions == nil:
		return nil, malformed("solutions is not an array")
	}

	analysis := &apimodels.Analysis{
		RootCause: apimodels.RootCause{
			Title:       *w.RootCause.Title,
			Explanation: *w.RootCause.Explanation,
		},
		Solutions: make([]apimodels.Solution, 0, len(*w.Solutions)),
	}
	for i, s := range *w.Solutions {
		switch {
		case s == nil:
			return nil, malformed(fmt.Sprintf("solutions[%d] is null", i))
		case s.Title == nil:
			return nil, malformed(fmt.Sprintf("solutions[%d].title is missing", i))
		case s.Steps == nil:
			return nil, malformed(fmt.Sprintf("solutions[%d].steps is not an array", i))
		}
		analysis.Solutions = append(analysis.Solutions, apimodels.Solution{
			Title: *s.Title,
			Steps: append([]string{}, *s.Steps...),
		})
	}

	return analysis, nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
}
