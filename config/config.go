package config

import "time"

type Config struct {
	Web     Web
	Cors    Cors
	Market  Market
	Session Session
	Auth    Auth
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:3000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:30s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string `conf:"default:http://localhost:3001"`
}

// Market points at the upstream marketplace API that owns all data and
// business rules.
type Market struct {
	URL        string        `conf:"default:http://localhost:8000"`
	Timeout    time.Duration `conf:"default:10s"`
	RetryDelay time.Duration `conf:"default:500ms"`
	MaxRetries int           `conf:"default:1"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`

	// StoreExpiry bounds how long an idle cart or checkout view is kept
	// in memory for a session that went quiet.
	StoreExpiry time.Duration `conf:"default:1h"`
}

// Auth bounds the login/register request rate per remote address.
type Auth struct {
	LimitBurst    int           `conf:"default:5"`
	LimitExpiry   int           `conf:"default:30"`
	LimitInterval time.Duration `conf:"default:2s"`
}
