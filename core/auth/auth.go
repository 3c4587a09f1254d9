// Package auth bridges browser sessions and the marketplace token
// lifecycle.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/session"
)

// LoadAndSave adapts the scs session middleware to the handler chain,
// so every request sees its cookie session in the context.
func LoadAndSave(sessions *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			wrapped := sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))
			wrapped.ServeHTTP(w, r)

			return err
		}
		return h
	}
	return m
}

// Authenticate rejects requests whose session holds no bearer token.
// It does not validate the token; the upstream does that, and a 401
// from it clears the token.
func Authenticate(tokens *session.Browser) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if tokens.Token(ctx) == "" {
				return weberr.NotAuthorized(errors.New("no token in session"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
