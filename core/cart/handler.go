package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/session"
)

func fail(err error) error {
	switch {
	case errors.Is(err, ErrLineNotFound):
		return weberr.NotFound(err)
	case errors.Is(err, ErrNotLoaded):
		return weberr.NewError(err, "cart not loaded yet", http.StatusConflict)
	}
	return upstream.Map(err)
}

// ensure gives line-level mutations a Ready view to resolve ids
// against.
func ensure(ctx context.Context, st *Store) error {
	if st.Snapshot().State == Ready {
		return nil
	}
	return st.Load(ctx)
}

func HandleShow(carts *Registry, tokens *session.Browser) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st := carts.For(tokens.Token(ctx))

		if err := st.Load(ctx); err != nil {
			return fail(err)
		}

		return web.Respond(ctx, w, st.Snapshot().Cart, http.StatusOK)
	}
}

func HandleCreateItem(carts *Registry, tokens *session.Browser) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(err)
		}

		st := carts.For(tokens.Token(ctx))

		if err := st.Add(ctx, in.CropID, in.Quantity); err != nil {
			return fail(err)
		}

		return web.Respond(ctx, w, st.Snapshot().Cart, http.StatusOK)
	}
}

func HandleUpdateItem(carts *Registry, tokens *session.Browser) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var in ItemUp
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(err)
		}

		st := carts.For(tokens.Token(ctx))
		if err := ensure(ctx, st); err != nil {
			return fail(err)
		}

		if err := st.UpdateQuantity(ctx, id, in.Quantity); err != nil {
			return fail(err)
		}

		return web.Respond(ctx, w, st.Snapshot().Cart, http.StatusOK)
	}
}

func HandleDeleteItem(carts *Registry, tokens *session.Browser) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		st := carts.For(tokens.Token(ctx))
		if err := ensure(ctx, st); err != nil {
			return fail(err)
		}

		if err := st.Remove(ctx, id); err != nil {
			return fail(err)
		}

		return web.Respond(ctx, w, st.Snapshot().Cart, http.StatusOK)
	}
}

func HandleDelete(carts *Registry, tokens *session.Browser) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st := carts.For(tokens.Token(ctx))

		if err := st.Clear(ctx); err != nil {
			return fail(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
