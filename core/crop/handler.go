package crop

import (
	"context"
	"net/http"

	"github.com/dailyfarm/farmgate/api/upstream"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/api/weberr"
	"github.com/dailyfarm/farmgate/client"
)

func listParams(r *http.Request) ListParams {
	q := r.URL.Query()
	return ListParams{
		Page:     web.QueryInt(r, "page"),
		Limit:    web.QueryInt(r, "limit"),
		Status:   Status(q.Get("status")),
		FarmerID: web.QueryInt(r, "farmer_id"),
		Search:   q.Get("search"),
		SortBy:   SortOption(q.Get("sort_by")),
		MinPrice: web.QueryFloat(r, "min_price"),
		MaxPrice: web.QueryFloat(r, "max_price"),
		Region:   q.Get("region"),
	}
}

func HandleList(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, err := List(ctx, api, listParams(r))
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

func HandleShow(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, api, id)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleCreate(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nc CropNew
		if err := web.Decode(w, r, &nc); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Create(ctx, api, nc)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var up CropUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Update(ctx, api, id, up)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
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

func HandleUpdateSensor(api *client.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var up SensorUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := UpdateSensor(ctx, api, id, up)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

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

		c, err := UpdateStatus(ctx, api, id, up)
		if err != nil {
			return upstream.Map(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}
