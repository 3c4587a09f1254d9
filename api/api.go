package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/dailyfarm/farmgate/api/middleware"
	"github.com/dailyfarm/farmgate/api/web"
	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/auth"
	"github.com/dailyfarm/farmgate/core/cart"
	"github.com/dailyfarm/farmgate/core/crop"
	"github.com/dailyfarm/farmgate/core/message"
	"github.com/dailyfarm/farmgate/core/order"
	"github.com/dailyfarm/farmgate/core/review"
	"github.com/dailyfarm/farmgate/core/user"
	"github.com/dailyfarm/farmgate/rate"
	"github.com/dailyfarm/farmgate/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin  string
	Log         logrus.FieldLogger
	Session     *scs.SessionManager
	Market      *client.Client
	Tokens      *session.Browser
	Users       *session.Manager
	Carts       *cart.Registry
	Checkouts   *order.Registry
	AuthLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Tokens)
	limited := middleware.RateLimit(cfg.AuthLimiter)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Users, cfg.Tokens, cfg.Carts), limited)
	a.Handle(http.MethodPost, "/auth/register", auth.HandleRegister(cfg.Users), limited)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Users, cfg.Tokens, cfg.Carts, cfg.Checkouts), authen)
	a.Handle(http.MethodGet, "/auth/me", auth.HandleCurrent(cfg.Users), authen)
	a.Handle(http.MethodPut, "/users/me", user.HandleUpdate(cfg.Market), authen)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Carts, cfg.Tokens), authen)
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.Carts, cfg.Tokens), authen)
	a.Handle(http.MethodPost, "/cart/items", cart.HandleCreateItem(cfg.Carts, cfg.Tokens), authen)
	a.Handle(http.MethodPut, "/cart/items/{id}", cart.HandleUpdateItem(cfg.Carts, cfg.Tokens), authen)
	a.Handle(http.MethodDelete, "/cart/items/{id}", cart.HandleDeleteItem(cfg.Carts, cfg.Tokens), authen)

	a.Handle(http.MethodPost, "/orders", order.HandleCheckout(cfg.Checkouts, cfg.Carts, cfg.Tokens), authen)
	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.Market), authen)
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.Market), authen)
	a.Handle(http.MethodPost, "/orders/{id}/cancel", order.HandleCancel(cfg.Market), authen)
	a.Handle(http.MethodPut, "/orders/{id}/status", order.HandleUpdateStatus(cfg.Market), authen)

	a.Handle(http.MethodGet, "/crops/{crop_id}/reviews", review.HandleListByCrop(cfg.Market))
	a.Handle(http.MethodGet, "/crops/{id}", crop.HandleShow(cfg.Market))
	a.Handle(http.MethodGet, "/crops", crop.HandleList(cfg.Market))
	a.Handle(http.MethodPost, "/crops", crop.HandleCreate(cfg.Market), authen)
	a.Handle(http.MethodPut, "/crops/{id}/sensor", crop.HandleUpdateSensor(cfg.Market), authen)
	a.Handle(http.MethodPut, "/crops/{id}/status", crop.HandleUpdateStatus(cfg.Market), authen)
	a.Handle(http.MethodPut, "/crops/{id}", crop.HandleUpdate(cfg.Market), authen)
	a.Handle(http.MethodDelete, "/crops/{id}", crop.HandleDelete(cfg.Market), authen)

	a.Handle(http.MethodPost, "/reviews", review.HandleCreate(cfg.Market), authen)
	a.Handle(http.MethodPut, "/reviews/{id}", review.HandleUpdate(cfg.Market), authen)
	a.Handle(http.MethodDelete, "/reviews/{id}", review.HandleDelete(cfg.Market), authen)

	a.Handle(http.MethodGet, "/messages", message.HandleList(cfg.Market), authen)
	a.Handle(http.MethodGet, "/messages/{id}", message.HandleShow(cfg.Market), authen)
	a.Handle(http.MethodPost, "/messages", message.HandleSend(cfg.Market), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
