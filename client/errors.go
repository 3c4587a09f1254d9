package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call against the marketplace API.
type Kind int

const (
	// KindTransport means no response reached the client.
	KindTransport Kind = iota

	// KindServer is a 5xx from the upstream.
	KindServer

	// KindRequest is a 4xx other than 401.
	KindRequest

	// KindAuth is a 401; the persisted token has been cleared.
	KindAuth
)

// User-facing fallback messages, keyed by failure class. A
// server-supplied detail string always wins over these.
const (
	MsgNetwork = "network problem, check your connection"
	MsgServer  = "server problem, try again later"
	MsgAuth    = "authentication required"
	MsgRequest = "the request could not be processed"
)

// Error is the uniform shape every failed call is normalized into.
type Error struct {
	Kind   Kind
	Status int // zero when no response was received
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("marketplace api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("marketplace api: %s: %v", e.Detail, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Temporary reports whether a retry by the user may succeed.
func (e *Error) Temporary() bool {
	return e.Kind == KindTransport || e.Kind == KindServer
}

// From extracts the normalized error, when err came from this package.
func From(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Detail returns the user-facing message for err, falling back to a
// generic one when err did not come from this package.
func Detail(err error) string {
	if ce, ok := From(err); ok {
		return ce.Detail
	}
	return MsgRequest
}
