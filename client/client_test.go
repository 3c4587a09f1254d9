package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type memTokens struct {
	token string
}

func (m *memTokens) Token(ctx context.Context) string { return m.token }
func (m *memTokens) Clear(ctx context.Context)        { m.token = "" }

// flakyServer drops the connection for the first failures requests and
// serves body afterwards.
func flakyServer(t *testing.T, failures int32, body string) (*httptest.Server, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n <= failures {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijacking connection: %v", err)
			}
			conn.Close()
			return
		}
		w.Write([]byte(body))
	}))
	return srv, &hits
}

func testClient(srv *httptest.Server, tokens TokenSource) *Client {
	return New(Config{
		BaseURL:    srv.URL,
		Tokens:     tokens,
		RetryDelay: time.Millisecond,
	})
}

func TestRetryAfterTransportFailure(t *testing.T) {
	srv, hits := flakyServer(t, 1, `{"id":7}`)
	defer srv.Close()

	c := testClient(srv, nil)

	var out struct {
		ID int `json:"id"`
	}
	if err := c.Get(context.Background(), "/crops/7", nil, &out); err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if out.ID != 7 {
		t.Errorf("expected decoded id 7, got %d", out.ID)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestNoSecondRetry(t *testing.T) {
	srv, hits := flakyServer(t, 2, `{}`)
	defer srv.Close()

	c := testClient(srv, nil)

	err := c.Get(context.Background(), "/crops", nil, nil)
	if err == nil {
		t.Fatal("expected an error after two transport failures")
	}

	ce, ok := From(err)
	if !ok {
		t.Fatalf("expected a client error, got %T", err)
	}
	if ce.Kind != KindTransport {
		t.Errorf("expected KindTransport, got %v", ce.Kind)
	}
	if ce.Detail != MsgNetwork {
		t.Errorf("expected detail %q, got %q", MsgNetwork, ce.Detail)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestPostNotRetried(t *testing.T) {
	srv, hits := flakyServer(t, 1, `{}`)
	defer srv.Close()

	c := testClient(srv, nil)

	err := c.Post(context.Background(), "/cart/items", map[string]int{"crop_id": 1}, nil)
	if err == nil {
		t.Fatal("expected the unsafe POST to fail without a retry")
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}

func TestPostWithIdempotencyKeyRetried(t *testing.T) {
	srv, hits := flakyServer(t, 1, `{}`)
	defer srv.Close()

	c := testClient(srv, nil)

	err := c.Post(context.Background(), "/orders", map[string]int{"farmer_id": 1}, nil,
		WithHeader(IdempotencyHeader, "key-1"))
	if err != nil {
		t.Fatalf("expected the keyed POST to be retried, got %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer srv.Close()

	tokens := &memTokens{token: "tok-1"}
	c := testClient(srv, tokens)

	err := c.Get(context.Background(), "/auth/me", nil, nil)
	ce, ok := From(err)
	if !ok {
		t.Fatalf("expected a client error, got %v", err)
	}
	if ce.Kind != KindAuth {
		t.Errorf("expected KindAuth, got %v", ce.Kind)
	}
	if ce.Detail != "token expired" {
		t.Errorf("expected upstream detail, got %q", ce.Detail)
	}
	if tokens.token != "" {
		t.Error("expected the stored token to be cleared after a 401")
	}
}

func TestRequestErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"quantity exceeds available stock"}`))
	}))
	defer srv.Close()

	c := testClient(srv, nil)

	err := c.Post(context.Background(), "/cart/items", map[string]int{"crop_id": 1}, nil)
	ce, ok := From(err)
	if !ok {
		t.Fatalf("expected a client error, got %v", err)
	}
	if ce.Kind != KindRequest {
		t.Errorf("expected KindRequest, got %v", ce.Kind)
	}
	if ce.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", ce.Status)
	}
	if ce.Detail != "quantity exceeds available stock" {
		t.Errorf("unexpected detail %q", ce.Detail)
	}
	if ce.Temporary() {
		t.Error("a 422 should not be reported as temporary")
	}
}

func TestServerErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv, nil)

	err := c.Get(context.Background(), "/crops", nil, nil)
	ce, ok := From(err)
	if !ok {
		t.Fatalf("expected a client error, got %v", err)
	}
	if ce.Kind != KindServer {
		t.Errorf("expected KindServer, got %v", ce.Kind)
	}
	if ce.Detail != MsgServer {
		t.Errorf("expected detail %q, got %q", MsgServer, ce.Detail)
	}
	if !ce.Temporary() {
		t.Error("a 500 should be reported as temporary")
	}
}

func TestCanceledContextStopsRetry(t *testing.T) {
	srv, hits := flakyServer(t, 2, `{}`)
	defer srv.Close()

	c := New(Config{
		BaseURL:    srv.URL,
		RetryDelay: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := c.Get(ctx, "/crops", nil, nil)
	ce, ok := From(err)
	if !ok {
		t.Fatalf("expected a client error, got %v", err)
	}
	if ce.Kind != KindTransport {
		t.Errorf("expected KindTransport, got %v", ce.Kind)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("expected the retry to be abandoned after 1 attempt, got %d", got)
	}
}
