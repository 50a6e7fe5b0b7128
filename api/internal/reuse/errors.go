package reuse

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	// KindMissingInput: no image in the request; the provider is never called.
	KindMissingInput
	// KindInvalidInput: the request names an unknown or unconfigured engine.
	KindInvalidInput
	// KindProvider: the provider call or its response handling failed.
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindInvalidInput:
		return "invalid_input"
	case KindProvider:
		return "provider_failure"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the status code the API answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingInput, KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind and the message shown to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

const MsgNoImage = "No image uploaded"

var ErrNoImage = &Error{Kind: KindMissingInput, Message: MsgNoImage}

func providerError(err error) *Error {
	return &Error{Kind: KindProvider, Message: err.Error(), Err: err}
}

// KindOf reports the kind of err; errors not produced by this package are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
