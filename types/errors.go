package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a gateway failure so clients can branch on the
// category instead of matching message strings
type ErrorKind string

const (
	ErrKindValidation       ErrorKind = "validation_error"
	ErrKindRateLimited      ErrorKind = "rate_limited"
	ErrKindUpstream         ErrorKind = "upstream_error"
	ErrKindNetwork          ErrorKind = "network_error"
	ErrKindTimeout          ErrorKind = "timeout"
	ErrKindAmbiguousSession ErrorKind = "ambiguous_session"
	ErrKindNotFound         ErrorKind = "not_found"
	ErrKindInternal         ErrorKind = "internal_error"
)

// GatewayError is a classified failure that keeps its kind intact across
// the service, REST and streaming layers
type GatewayError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError builds a classified error from a format string
func NewGatewayError(kind ErrorKind, format string, args ...interface{}) *GatewayError {
	return &GatewayError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapGatewayError classifies an underlying error without losing it
func WrapGatewayError(kind ErrorKind, message string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the error kind, defaulting to internal for
// unclassified errors
func KindOf(err error) ErrorKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ErrKindInternal
}

// HTTPStatus maps an error kind to the status code the REST surface returns
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrKindValidation:
		return http.StatusBadRequest
	case ErrKindRateLimited:
		return http.StatusTooManyRequests
	case ErrKindUpstream, ErrKindNetwork:
		return http.StatusBadGateway
	case ErrKindTimeout:
		return http.StatusGatewayTimeout
	case ErrKindAmbiguousSession:
		return http.StatusConflict
	case ErrKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RPCCode maps an error kind to the code used in stream error frames
func (k ErrorKind) RPCCode() int {
	switch k {
	case ErrKindValidation:
		return -32602
	case ErrKindNotFound:
		return -32001
	case ErrKindRateLimited:
		return -32002
	case ErrKindUpstream:
		return -32003
	case ErrKindNetwork:
		return -32004
	case ErrKindTimeout:
		return -32005
	case ErrKindAmbiguousSession:
		return -32006
	default:
		return -32603
	}
}

// Session registry sentinels
var (
	ErrSessionNotFound  = &GatewayError{Kind: ErrKindNotFound, Message: "session not found"}
	ErrAmbiguousSession = &GatewayError{Kind: ErrKindAmbiguousSession, Message: "multiple active sessions, session_id is required"}
)
