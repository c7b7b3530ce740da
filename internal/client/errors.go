package client

import "errors"

// Kind classifies a failed call so callers can branch without matching
// message strings.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindRateLimit  Kind = "rate_limit"
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindHTTP       Kind = "http"
	KindNetwork    Kind = "network"
	KindDecode     Kind = "decode"
	KindCanceled   Kind = "canceled"
)

// Error is the single error type returned by the client and by the forms
// and stores built on it.
type Error struct {
	Kind       Kind
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a client-side validation failure; no request was sent.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// AsError extracts *Error from err, wrapping foreign errors as KindHTTP.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindHTTP, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}
