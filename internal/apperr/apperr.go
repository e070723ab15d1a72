package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and handler policy.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUpstream
	KindConfiguration
	KindAuth
	KindStorage
	KindNotFound
	KindPartialWrite
)

type Error struct {
	Kind    Kind
	Message string
	// UpstreamStatus is the remote platform's status code, set only for KindUpstream.
	UpstreamStatus int
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Upstream(status int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUpstream, UpstreamStatus: status, Message: fmt.Sprintf(format, args...)}
}

// Configuration names the missing environment variable so operators can tell
// which deployment secret was never set.
func Configuration(envVar string) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf("missing required configuration: %s", envVar)}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func PartialWrite(message string, err error) *Error {
	return &Error{Kind: KindPartialWrite, Message: message, Err: err}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// HTTPStatus maps an error to the status code its handler should return.
// Upstream errors pass the remote platform's status through.
func HTTPStatus(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}

	switch ae.Kind {
	case KindValidation, KindNotFound:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindUpstream:
		if ae.UpstreamStatus >= 400 {
			return ae.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
