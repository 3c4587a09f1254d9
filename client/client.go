package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// IdempotencyHeader carries a caller-generated key that makes an order
// submission safe to retry. POSTs without it are never retried.
const IdempotencyHeader = "X-Idempotency-Key"

// TokenSource is the single accessor for the persisted bearer token.
// Clear must be idempotent: concurrent 401s may both call it.
type TokenSource interface {
	Token(ctx context.Context) string
	Clear(ctx context.Context)
}

// Config holds the knobs for the marketplace API client.
type Config struct {
	BaseURL    string
	Tokens     TokenSource
	Log        logrus.FieldLogger
	Timeout    time.Duration
	RetryDelay time.Duration
	MaxRetries int
	Transport  http.RoundTripper
}

// Client is the single choke point for outbound calls to the
// marketplace API. It attaches the bearer token, retries transport
// failures of idempotent requests once after a fixed delay, clears the
// token on 401 and normalizes every failure into *Error.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	log        logrus.FieldLogger
	retryDelay time.Duration
	maxRetries int
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Log = l
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		http:       &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		tokens:     cfg.Tokens,
		log:        cfg.Log,
		retryDelay: cfg.RetryDelay,
		maxRetries: cfg.MaxRetries,
	}
}

// ReqOpt mutates the outgoing request before it is sent.
type ReqOpt func(*http.Request)

func WithHeader(key, value string) ReqOpt {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...ReqOpt) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, opts ...ReqOpt) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := c.newRequest(ctx, method, u, payload, opts)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err == nil {
			return c.handle(ctx, resp, out)
		}

		if ctx.Err() != nil {
			return &Error{Kind: KindTransport, Detail: MsgNetwork, Err: ctx.Err()}
		}

		lastErr = err
		if attempt >= c.maxRetries || !retryable(req) {
			break
		}

		c.log.WithFields(logrus.Fields{
			"method":  method,
			"path":    path,
			"attempt": attempt + 1,
			"message": err,
		}).Warn("transport failure, retrying")

		t := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return &Error{Kind: KindTransport, Detail: MsgNetwork, Err: ctx.Err()}
		case <-t.C:
		}
	}

	return &Error{Kind: KindTransport, Detail: MsgNetwork, Err: lastErr}
}

func (c *Client) newRequest(ctx context.Context, method, u string, payload []byte, opts []ReqOpt) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	for _, opt := range opts {
		opt(req)
	}
	return req, nil
}

// retryable limits the transport retry to requests that are safe to
// replay: anything but a POST, or a POST carrying an idempotency key.
func retryable(req *http.Request) bool {
	if req.Method != http.MethodPost {
		return true
	}
	return req.Header.Get(IdempotencyHeader) != ""
}

func (c *Client) handle(ctx context.Context, resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{
				Kind:   KindServer,
				Status: resp.StatusCode,
				Detail: MsgServer,
				Err:    fmt.Errorf("decoding response body: %w", err),
			}
		}
		return nil
	}

	detail := decodeDetail(resp.Body)
	err := fmt.Errorf("status %d from %s %s", resp.StatusCode, resp.Request.Method, resp.Request.URL.Path)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.tokens != nil {
			c.tokens.Clear(ctx)
		}
		if detail == "" {
			detail = MsgAuth
		}
		return &Error{Kind: KindAuth, Status: resp.StatusCode, Detail: detail, Err: err}

	case resp.StatusCode >= 500:
		if detail == "" {
			detail = MsgServer
		}
		return &Error{Kind: KindServer, Status: resp.StatusCode, Detail: detail, Err: err}

	default:
		if detail == "" {
			detail = MsgRequest
		}
		return &Error{Kind: KindRequest, Status: resp.StatusCode, Detail: detail, Err: err}
	}
}

// decodeDetail pulls the detail string out of the upstream error
// envelope. Anything unparseable is treated as no detail.
func decodeDetail(r io.Reader) string {
	var env struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&env); err != nil {
		return ""
	}
	return env.Detail
}
