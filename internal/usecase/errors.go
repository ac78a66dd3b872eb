package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorNotFound     ErrorCode = "NOT_FOUND"
	ErrorInternal     ErrorCode = "INTERNAL_ERROR"
)

// Reasons refine a code for logs. They are not shown to clients.
const (
	ReasonEmptyMessage         = "empty_message"
	ReasonMessageTooLong       = "message_too_long"
	ReasonEmptyConversationID  = "empty_conversation_id"
	ReasonConversationNotFound = "conversation_not_found"
	ReasonTranscriptWrite      = "transcript_write_error"
	ReasonTranscriptRead       = "transcript_read_error"
	ReasonInvalidTheme         = "invalid_theme"
	ReasonPreferenceRead       = "preference_read_error"
	ReasonPreferenceWrite      = "preference_write_error"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CodeOf returns the code carried by err, or ErrorInternal when err is not a
// usecase error.
func CodeOf(err error) ErrorCode {
	var ucErr *Error
	if errors.As(err, &ucErr) && ucErr.Code != "" {
		return ucErr.Code
	}
	return ErrorInternal
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
