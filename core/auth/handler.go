package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/core/cart"
	"github.com/dailyfarm/farmgate/core/order"
	"github.com/dailyfarm/farmgate/core/user"
	"github.com/dailyfarm/farmgate/session"
)

func HandleLogin(m *session.Manager, tokens *session.Browser, carts *cart.Registry) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds session.Credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := m.Login(ctx, creds)
		if err != nil {
			return upstream.Map(err)
		}

		// The session just became active, warm the cart view. A load
		// failure is kept on the store for the cart page to show.
		carts.For(tokens.Token(ctx)).Load(ctx)

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleRegister(m *session.Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nu user.New
		if err := web.Decode(w, r, &nu); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := m.Register(ctx, nu)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

func HandleLogout(m *session.Manager, tokens *session.Browser, carts *cart.Registry, flows *order.Registry) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		key := tokens.Token(ctx)

		m.Logout(ctx)

		if key != "" {
			carts.Drop(key)
			flows.Drop(key)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleCurrent(m *session.Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := m.Current(ctx)
		if err != nil {
			if errors.Is(err, session.ErrAnonymous) {
				return weberr.NotAuthorized(err)
			}
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}
