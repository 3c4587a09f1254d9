package review

import (
	"context"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/client"
)

func HandleCreate(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nr ReviewNew
		if err := web.Decode(w, r, &nr); err != nil {
			return weberr.BadRequest(err)
		}

		rv, err := Create(ctx, api, nr)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, rv, http.StatusCreated)
	}
}

func HandleUpdate(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var up ReviewUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		rv, err := Update(ctx, api, id, up)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, rv, http.StatusOK)
	}
}

func HandleDelete(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		if err := Delete(ctx, api, id); err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleListByCrop(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cropID, err := web.IntParam(r, "crop_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		page, err := ListByCrop(ctx, api, cropID, web.QueryInt(r, "page"), web.QueryInt(r, "limit"))
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}
