package user

import (
	"context"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/client"
)

func HandleUpdate(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var up Up
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := Update(ctx, api, up)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}
