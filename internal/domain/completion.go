package domain

import "fmt"

// CodeInsufficientQuota is the API error code returned when the account has
// run out of credit.
const CodeInsufficientQuota = "insufficient_quota"

// CodeMalformedResponse tags a response that arrived but could not be used.
const CodeMalformedResponse = "malformed_response"

// Completion is the outcome of one remote completion call. It is always one
// of Success, APIError or TransportError.
type Completion interface {
	completion()
}

// Success carries the generated text.
type Success struct {
	Text string
}

// APIError is a response that was received but is not usable: a non-2xx
// status, a top-level error object, or an undecodable body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// TransportError means no response was received.
type TransportError struct {
	Err error
}

func (Success) completion()        {}
func (APIError) completion()       {}
func (TransportError) completion() {}

func (e APIError) String() string {
	return fmt.Sprintf("api error status=%d code=%q: %s", e.StatusCode, e.Code, e.Message)
}
