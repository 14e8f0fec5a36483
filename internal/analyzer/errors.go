package analyzer

import "errors"

var (
	// ErrTransportFailure means the model call could not be completed or the
	// provider reported a failure (network, auth, quota, server error).
	ErrTransportFailure = errors.New("transport failure")

	// ErrMalformedResponse means the model answered but the text was not valid
	// JSON or did not satisfy the analysis schema.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNotConfigured is returned when no provider handle is available.
	ErrNotConfigured = errors.New("analyzer has no model provider configured")
)

const (
	msgTransport = "Unable to get an analysis from the AI model. Please check the service configuration and try again later."
	msgMalformed = "The AI returned an invalid analysis format. Please try again."
	msgUnknown   = "An unknown error occurred."
)

// Kind names the error class for API consumers.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrTransportFailure):
		return "transport_failure"
	default:
		return "internal"
	}
}

// UserMessage returns the short text shown to users for err. Provider
// diagnostics are never included.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return msgMalformed
	case errors.Is(err, ErrTransportFailure):
		return msgTransport
	default:
		return msgUnknown
	}
}
