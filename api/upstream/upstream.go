// Package upstream translates normalized marketplace client errors
// into the responses the browser should see.
package upstream

import (
	"net/http"

	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/client"
)

// Error maps a failed upstream call onto an HTTP response, preserving
// the server-supplied detail string. 4xx pass through with their
// status; transport and 5xx failures surface as a retryable 502; a 401
// means the persisted token is already cleared and the browser must
// log in again.
func Error(err error) error {
	ce, ok := client.From(err)
	if !ok {
		return weberr.InternalError(err)
	}

	switch ce.Kind {
	case client.KindAuth:
		return weberr.NewError(err, ce.Detail, http.StatusUnauthorized)

	case client.KindRequest:
		return weberr.NewError(err, ce.Detail, ce.Status)

	default:
		return weberr.BadGateway(err, ce.Detail)
	}
}

// Map is Error for upstream failures, and an unprocessable-entity
// response for anything else a service call can return, which in
// practice is input validation.
func Map(err error) error {
	if _, ok := client.From(err); ok {
		return Error(err)
	}
	return weberr.Unprocessable(err, err.Error())
}
