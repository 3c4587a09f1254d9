package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/dailyfarm/farmgate/api"
	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/config"
	"github.com/dailyfarm/farmgate/core/cart"
	"github.com/dailyfarm/farmgate/core/order"
	"github.com/dailyfarm/farmgate/rate"
	"github.com/dailyfarm/farmgate/session"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "FARMGATE"
	var cfg config.Config
	if _, err := conf.Parse(prefix, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	tokens := &session.Browser{Sessions: sessionManager}

	market := client.New(client.Config{
		BaseURL:    cfg.Market.URL,
		Tokens:     tokens,
		Log:        logger,
		Timeout:    cfg.Market.Timeout,
		RetryDelay: cfg.Market.RetryDelay,
		MaxRetries: cfg.Market.MaxRetries,
	})

	users := session.NewManager(market, tokens, logger)

	carts := cart.NewRegistry(market, logger, cfg.Session.StoreExpiry)
	defer carts.Close()
	checkouts := order.NewRegistry(market, logger, cfg.Session.StoreExpiry)
	defer checkouts.Close()

	limiter := rate.NewLimiter(cfg.Auth.LimitBurst, cfg.Auth.LimitExpiry, rate.Every(cfg.Auth.LimitInterval))
	defer limiter.Close()

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:  cfg.Cors.Origin,
		Log:         logger,
		Session:     sessionManager,
		Market:      market,
		Tokens:      tokens,
		Users:       users,
		Carts:       carts,
		Checkouts:   checkouts,
		AuthLimiter: limiter,
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
