package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/cart"
	"github.com/dailyfarm/farmgate/session"
)

// HandleCheckout runs the per-seller order submission for the session's
// cart. On partial failure the response reports the outcome of every
// partition and a retry of the same request only re-submits the ones
// that failed.
func HandleCheckout(flows *Registry, carts *cart.Registry, tokens *session.Browser) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in CheckoutInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(err)
		}

		key := tokens.Token(ctx)
		fl := flows.For(key, carts.For(key))

		sum, err := fl.Submit(ctx, in)

		switch {
		case err == nil:
			return web.Respond(ctx, w, sum, http.StatusCreated)

		case errors.Is(err, ErrEmptyCart):
			return weberr.Unprocessable(err, "no items to checkout")

		case len(sum.Failures) > 0:
			return weberr.Wrap(
				fmt.Errorf("checkout partially failed: %w", err),
				weberr.WithResponse(sum, http.StatusBadGateway),
				weberr.WithFields(map[string]interface{}{
					"failed_partitions": len(sum.Failures),
					"placed_orders":     len(sum.Orders),
				}),
			)

		default:
			return upstream.Map(err)
		}
	}
}

func HandleList(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orders, err := List(ctx, api)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}

func HandleShow(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := Fetch(ctx, api, id)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleCancel(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := Cancel(ctx, api, id)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

// HandleUpdateStatus is the farmer-side transition endpoint; the
// upstream enforces ownership and the legal transitions.
func HandleUpdateStatus(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var up StatusUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := UpdateStatus(ctx, api, id, up)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}
