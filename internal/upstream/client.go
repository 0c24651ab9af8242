// Package upstream is the outbound HTTP transport used to talk to Twitch.
// It carries default headers, performs JSON POSTs, form POSTs and GETs with
// query parameters, and logs one line per call with its timing.
//
// The transport never classifies HTTP status and never reads the response
// body: callers decode (and close) the body themselves.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ClientID identifies the first-party web client to Twitch. The password
// endpoint rejects requests that carry any other value.
const ClientID = "kimne78kx3ncx6brgo4mv6wki5h1ko"

// UserAgent is the desktop Chrome UA sent on every call. Frozen on purpose:
// Twitch filters non-browser agents on the login endpoint.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.121 Safari/537.36"

// IdentityHeaders returns the Client-Id and User-Agent headers required by
// the passport and Helix endpoints.
func IdentityHeaders() http.Header {
	h := make(http.Header)
	h.Set("Client-Id", ClientID)
	h.Set("User-Agent", UserAgent)
	return h
}

// Client is a thin wrapper over *http.Client. It is safe for concurrent use;
// a single instance (and its derivations) share one connection pool.
type Client struct {
	http    *http.Client
	headers http.Header
}

// New creates a client with no default headers. timeout bounds each request
// end to end, including reading the response body.
func New(timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		headers: make(http.Header),
	}
}

// NewFromHTTPClient wraps an existing *http.Client, e.g. one that trusts a
// test server's certificate.
func NewFromHTTPClient(hc *http.Client) *Client {
	return &Client{http: hc, headers: make(http.Header)}
}

// WithHeaders returns a client that sends the given headers on every call,
// on top of any headers c already carries. The connection pool is shared.
func (c *Client) WithHeaders(headers http.Header) *Client {
	merged := c.headers.Clone()
	for k, vs := range headers {
		merged[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	return &Client{http: c.http, headers: merged}
}

// Headers returns a copy of the client's fixed headers.
func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// Post sends body as JSON. headers may be nil.
func (c *Client) Post(ctx context.Context, rawURL string, headers http.Header, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, rawURL, headers, bytes.NewReader(payload), "application/json")
}

// PostForm sends form as application/x-www-form-urlencoded. headers may be nil.
func (c *Client) PostForm(ctx context.Context, rawURL string, headers http.Header, form url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, rawURL, headers, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// Get sends a GET with query merged into any query already on rawURL.
// headers and query may be nil.
func (c *Client) Get(ctx context.Context, rawURL string, headers http.Header, query url.Values) (*http.Response, error) {
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parsing url: %w", err)
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}
	return c.do(ctx, http.MethodGet, rawURL, headers, nil, "")
}

func (c *Client) do(ctx context.Context, method, rawURL string, headers http.Header, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}

	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	// Per-call headers win over the fixed ones.
	for k, vs := range headers {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	// Never log the query string: it may carry logins.
	logURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	if err != nil {
		// *url.Error carries the full URL; keep the query out of it too.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = logURL
		}
		slog.LogAttrs(ctx, slog.LevelWarn, "upstream request failed",
			slog.String("method", method),
			slog.String("url", logURL),
			slog.Int64("elapsed_ms", elapsed.Milliseconds()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, logURL, err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "upstream request",
		slog.String("method", method),
		slog.Int("status", resp.StatusCode),
		slog.String("url", logURL),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()),
	)

	return resp, nil
}
