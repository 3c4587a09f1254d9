package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/user"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

var testUser = user.User{
	ID:       5,
	Email:    "grower@example.com",
	FullName: "Sam Grower",
	UserType: user.TypeCustomer,
	IsActive: true,
}

// authBackend fakes the marketplace auth endpoints. A login succeeds
// only for the known password, and /auth/me requires the issued token.
func authBackend(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /auth/login":
			var creds Credentials
			json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "growers-gonna-grow" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"incorrect email or password"}`))
				return
			}
			json.NewEncoder(w).Encode(token{AccessToken: "tok-5", TokenType: "bearer"})

		case "GET /auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-5" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"could not validate credentials"}`))
				return
			}
			json.NewEncoder(w).Encode(testUser)

		case "POST /auth/register":
			var nu user.New
			json.NewDecoder(r.Body).Decode(&nu)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(user.User{
				ID:       6,
				Email:    nu.Email,
				FullName: nu.FullName,
				UserType: nu.UserType,
				IsActive: true,
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testManager(t *testing.T) (*Manager, *Memory) {
	t.Helper()

	srv := authBackend(t)
	tokens := &Memory{}

	log := logrus.New()
	log.SetOutput(io.Discard)

	api := client.New(client.Config{BaseURL: srv.URL, Tokens: tokens})
	return NewManager(api, tokens, log), tokens
}

func TestLogin(t *testing.T) {
	m, tokens := testManager(t)
	ctx := context.Background()

	u, err := m.Login(ctx, Credentials{Email: "grower@example.com", Password: "growers-gonna-grow"})
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}

	if diff := cmp.Diff(testUser, u); diff != "" {
		t.Errorf("unexpected user (-want +got):\n%s", diff)
	}
	if tokens.Token(ctx) != "tok-5" {
		t.Errorf("expected the token to be persisted, got %q", tokens.Token(ctx))
	}
	if !m.Active(ctx) {
		t.Error("expected the session to be active after login")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	m, tokens := testManager(t)
	ctx := context.Background()

	_, err := m.Login(ctx, Credentials{Email: "grower@example.com", Password: "wrong"})
	if err == nil {
		t.Fatal("expected the login to fail")
	}

	ce, ok := client.From(err)
	if !ok {
		t.Fatalf("expected a client error, got %v", err)
	}
	if ce.Kind != client.KindAuth {
		t.Errorf("expected an auth error, got %v", ce.Kind)
	}
	if ce.Detail != "incorrect email or password" {
		t.Errorf("expected the upstream detail, got %q", ce.Detail)
	}
	if tokens.Token(ctx) != "" {
		t.Error("expected no token after a failed login")
	}
}

func TestLoginValidatesCredentials(t *testing.T) {
	m, _ := testManager(t)

	if _, err := m.Login(context.Background(), Credentials{Email: "not-an-email", Password: "x"}); err == nil {
		t.Fatal("expected a malformed email to be rejected before any call")
	}
}

func TestCurrentAnonymous(t *testing.T) {
	m, _ := testManager(t)

	_, err := m.Current(context.Background())
	if !errors.Is(err, ErrAnonymous) {
		t.Fatalf("expected ErrAnonymous, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	m, tokens := testManager(t)
	ctx := context.Background()

	if _, err := m.Login(ctx, Credentials{Email: "grower@example.com", Password: "growers-gonna-grow"}); err != nil {
		t.Fatalf("logging in: %v", err)
	}

	m.Logout(ctx)

	if tokens.Token(ctx) != "" {
		t.Error("expected the token to be dropped on logout")
	}
	if m.Active(ctx) {
		t.Error("expected the session to be inactive after logout")
	}
}

func TestRejectedTokenClearsSession(t *testing.T) {
	m, tokens := testManager(t)
	ctx := context.Background()

	tokens.Set(ctx, "stale-token")

	_, err := m.Current(ctx)
	if err == nil {
		t.Fatal("expected the stale token to be rejected")
	}
	if tokens.Token(ctx) != "" {
		t.Error("expected the 401 to clear the persisted token")
	}
}

func TestRegister(t *testing.T) {
	m, _ := testManager(t)

	u, err := m.Register(context.Background(), user.New{
		Email:    "farmer@example.com",
		Password: "longenough",
		FullName: "Jo Farmer",
		UserType: user.TypeFarmer,
	})
	if err != nil {
		t.Fatalf("registering: %v", err)
	}
	if u.ID != 6 || u.UserType != user.TypeFarmer {
		t.Errorf("unexpected registered user %+v", u)
	}
}
