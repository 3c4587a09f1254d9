package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/rate"
)

// RateLimit rejects callers that exceed the per-address budget. Applied
// to the auth endpoints to slow down credential guessing.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !lim.Check(host) {
				return weberr.TooManyRequests(errors.New("rate limit exceeded for " + host))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
