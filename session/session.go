// Package session holds the authenticated identity of the person
// driving the frontend. The bearer token issued by the marketplace API
// is global mutable state with an explicit lifecycle: set on login,
// cleared on logout or on the first 401 the client sees. Everything
// goes through a TokenStore so no call site touches storage directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexedwards/scs/v2"
	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/user"
	"github.com/dailyfarm/farmgate/validate"
	"github.com/sirupsen/logrus"
)

// ErrAnonymous is returned when no token is persisted.
var ErrAnonymous = errors.New("no active session")

// TokenStore extends the client's read/clear view of the token with the
// write side used at login.
type TokenStore interface {
	client.TokenSource
	Set(ctx context.Context, token string)
}

// Memory keeps the token in process memory. Used by tests and by any
// embedder that drives the SDK directly.
type Memory struct {
	mu    sync.Mutex
	token string
}

func (m *Memory) Token(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Memory) Set(ctx context.Context, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *Memory) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

const tokenKey = "bearer_token"

// Browser persists the token inside the scs-managed cookie session, so
// each browser keeps its own marketplace identity across requests.
type Browser struct {
	Sessions *scs.SessionManager
}

func (b *Browser) Token(ctx context.Context) string {
	return b.Sessions.GetString(ctx, tokenKey)
}

func (b *Browser) Set(ctx context.Context, token string) {
	b.Sessions.Put(ctx, tokenKey, token)
}

func (b *Browser) Clear(ctx context.Context) {
	b.Sessions.Remove(ctx, tokenKey)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Manager runs the session lifecycle against the marketplace API.
type Manager struct {
	api    *client.Client
	tokens TokenStore
	log    logrus.FieldLogger
}

func NewManager(api *client.Client, tokens TokenStore, log logrus.FieldLogger) *Manager {
	return &Manager{api: api, tokens: tokens, log: log}
}

// Login exchanges credentials for a token, persists it and resolves the
// user behind it. The token endpoint returns no profile, so a follow-up
// fetch of /auth/me is always required.
func (m *Manager) Login(ctx context.Context, creds Credentials) (user.User, error) {
	if err := validate.Check(creds); err != nil {
		return user.User{}, err
	}

	var tok token
	if err := m.api.Post(ctx, "/auth/login", creds, &tok); err != nil {
		return user.User{}, fmt.Errorf("exchanging credentials: %w", err)
	}

	m.tokens.Set(ctx, tok.AccessToken)

	u, err := m.Current(ctx)
	if err != nil {
		m.tokens.Clear(ctx)
		return user.User{}, fmt.Errorf("resolving user behind fresh token: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"user_id":   u.ID,
		"user_type": u.UserType,
	}).Info("session started")

	return u, nil
}

func (m *Manager) Register(ctx context.Context, nu user.New) (user.User, error) {
	if err := validate.Check(nu); err != nil {
		return user.User{}, err
	}

	var u user.User
	if err := m.api.Post(ctx, "/auth/register", nu, &u); err != nil {
		return user.User{}, fmt.Errorf("registering user: %w", err)
	}
	return u, nil
}

// Logout destroys the session locally. The token is stateless on the
// upstream side, dropping it here is all there is to do.
func (m *Manager) Logout(ctx context.Context) {
	m.tokens.Clear(ctx)
}

// Current returns the user behind the persisted token, or ErrAnonymous
// when there is none.
func (m *Manager) Current(ctx context.Context) (user.User, error) {
	if m.tokens.Token(ctx) == "" {
		return user.User{}, ErrAnonymous
	}

	var u user.User
	if err := m.api.Get(ctx, "/auth/me", nil, &u); err != nil {
		return user.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return u, nil
}

// Active reports whether a token is persisted, without a network call.
func (m *Manager) Active(ctx context.Context) bool {
	return m.tokens.Token(ctx) != ""
}
