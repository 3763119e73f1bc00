package extraction

import "errors"

var (
	// ErrEmptyInput is returned before any outbound call when the text is blank.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrServiceFailure wraps transport, auth, quota and upstream errors.
	ErrServiceFailure = errors.New("generation service failure")
	// ErrNoData means the service answered with empty or non-JSON text.
	ErrNoData = errors.New("no data produced")
	// ErrMalformedResponse means the JSON did not satisfy the resume schema.
	ErrMalformedResponse = errors.New("malformed response")
)

// Outcome labels used in logs.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "service_failure"
	OutcomeNoData    = "no_data"
	OutcomeMalformed = "malformed_response"
)
