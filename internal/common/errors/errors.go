// Package errors provides the standardized error taxonomy for the match API.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMethodNotAllowed        ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidJSON             ErrorCode = "INVALID_JSON"
	ErrCodeMissingMemberCommittees ErrorCode = "MISSING_MEMBER_OR_COMMITTEES"
	ErrCodeServerMisconfigured     ErrorCode = "SERVER_MISCONFIGURED"
	ErrCodeAIMatchFailed           ErrorCode = "AI_MATCH_FAILED"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory groups codes by who is at fault.
type ErrorCategory string

const (
	CategoryTransport     ErrorCategory = "transport"
	CategoryInput         ErrorCategory = "input"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryUpstream      ErrorCategory = "upstream"
	CategoryInternal      ErrorCategory = "internal"
)

// Wire messages. These are part of the public HTTP contract.
const (
	MsgMethodNotAllowed    = "Method not allowed"
	MsgInvalidJSON         = "Invalid JSON"
	MsgMissingMember       = "Missing member or committees"
	MsgServerMisconfigured = "Server misconfigured: missing OPENAI_API_KEY"
	MsgAIMatchFailed       = "AI match failed"
	MsgInternal            = "Internal server error"
	MsgUnknownUpstream     = "Unknown error"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	// exposeDetails controls whether Details is written to the client.
	exposeDetails bool
	cause         error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error code to its response status.
func (e *StandardError) HTTPStatus() int {
	return GetHTTPStatus(e.Code)
}

// ToResponseBody renders the JSON body sent to the caller. Only the
// upstream failure carries a detail field.
func (e *StandardError) ToResponseBody() map[string]string {
	body := map[string]string{"error": e.Message}
	if e.exposeDetails {
		body["detail"] = e.Details
	}
	return body
}

// NewMethodNotAllowedError rejects any verb other than POST and OPTIONS.
func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   MsgMethodNotAllowed,
		Metadata:  map[string]interface{}{"method": method},
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJSONError is returned when the body cannot be parsed.
func NewInvalidJSONError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJSON,
		Message:   MsgInvalidJSON,
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMissingMemberOrCommitteesError is returned when the body has the wrong shape.
func NewMissingMemberOrCommitteesError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingMemberCommittees,
		Message:   MsgMissingMember,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewServerMisconfiguredError signals a missing completion credential.
func NewServerMisconfiguredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeServerMisconfigured,
		Message:   MsgServerMisconfigured,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAIMatchFailedError wraps a completion failure. detail is sent to the caller.
func NewAIMatchFailedError(detail string, cause error) *StandardError {
	if detail == "" {
		detail = MsgUnknownUpstream
	}
	return &StandardError{
		Code:          ErrCodeAIMatchFailed,
		Message:       MsgAIMatchFailed,
		Details:       detail,
		Retryable:     false,
		Timestamp:     time.Now().UTC(),
		exposeDetails: true,
		cause:         cause,
	}
}

// NewInternalError is used for recovered panics and unexpected failures.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   MsgInternal,
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// GetHTTPStatus returns the status code for an error code.
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeInvalidJSON, ErrCodeMissingMemberCommittees:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory classifies an error code.
func GetErrorCategory(code ErrorCode) ErrorCategory {
	switch code {
	case ErrCodeMethodNotAllowed:
		return CategoryTransport
	case ErrCodeInvalidJSON, ErrCodeMissingMemberCommittees:
		return CategoryInput
	case ErrCodeServerMisconfigured:
		return CategoryConfiguration
	case ErrCodeAIMatchFailed:
		return CategoryUpstream
	default:
		return CategoryInternal
	}
}

// IsClientError reports whether the caller caused the failure.
func IsClientError(code ErrorCode) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
