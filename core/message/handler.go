package message

import (
	"context"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/client"
)

func HandleList(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		msgs, err := List(ctx, api)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, msgs, http.StatusOK)
	}
}

func HandleShow(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		msg, err := Fetch(ctx, api, id)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, msg, http.StatusOK)
	}
}

func HandleSend(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nm MessageNew
		if err := web.Decode(w, r, &nm); err != nil {
			return weberr.BadRequest(err)
		}

		msg, err := Send(ctx, api, nm)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, msg, http.StatusCreated)
	}
}
