package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an authentication or transport failure. The classes
// must stay distinguishable so callers can branch on them without string
// matching.
type ErrorCode string

const (
	// CodeInvalidCredentials: the server explicitly rejected the credential.
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// CodeServerRejected: the server answered with an error of its own; the
	// message is surfaced verbatim.
	CodeServerRejected ErrorCode = "SERVER_REJECTED"
	// CodeNoResponse: the request never produced a server reply.
	CodeNoResponse ErrorCode = "NO_RESPONSE"
	// CodeRequestSetup: the request failed before it left the client.
	CodeRequestSetup ErrorCode = "REQUEST_SETUP"
	// CodeMalformedResponse: the server replied success but the payload is
	// missing required fields.
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	// CodeStorageCorrupt: the persisted session snapshot failed to parse.
	CodeStorageCorrupt ErrorCode = "STORAGE_CORRUPT"
	// CodeStorage: the local store rejected a read or write.
	CodeStorage ErrorCode = "STORAGE"
	// CodeInFlight: another auth operation is still pending.
	CodeInFlight ErrorCode = "IN_FLIGHT"
)

// Error is a classified failure with a human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError classifies an underlying error without losing it.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the classification from err, or "" for unclassified errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given classification.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Canonical failures. Messages are what the view layer renders inline.
var (
	ErrInvalidCredentials = NewError(CodeInvalidCredentials, "invalid username or password")
	ErrNoResponse         = NewError(CodeNoResponse, "no response from server")
	ErrRequestSetup       = NewError(CodeRequestSetup, "error setting up the request")
	ErrMissingToken       = NewError(CodeMalformedResponse, "invalid response from server: missing token")
	ErrOperationInFlight  = NewError(CodeInFlight, "another sign-in attempt is already in progress")
)
