package status

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/lbdash/internal/logger"
)

const (
	// StatusPath is the snapshot endpoint.
	StatusPath = "/api/status"
	// AddServerPath is the mutation endpoint.
	AddServerPath = "/api/add_server"

	maxPayloadBytes = 4 << 20
)

// Client talks to a load balancer's status API.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the base URL the client talks to.
func (c *Client) Endpoint() string {
	return c.baseURL
}

// Fetch performs exactly one GET against the status endpoint. Any failure is
// returned as a *FetchError; it never panics and never retries.
func (c *Client) Fetch(ctx context.Context) (snap Snapshot, err error) {
	url := c.baseURL + StatusPath

	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = &FetchError{URL: url, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	c.log.Debug("GET %s -> %d in %s", url, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Cause: ErrUnexpectedStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Cause: err}
	}
	if len(body) > maxPayloadBytes {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode,
			Cause: fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedPayload, maxPayloadBytes)}
	}

	snap, err = parseSnapshot(body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Cause: err}
	}
	return snap, nil
}

// AddServer performs exactly one POST against the add-server endpoint with
// an empty body. Any non-2xx answer is a *MutationError.
func (c *Client) AddServer(ctx context.Context) error {
	url := c.baseURL + AddServerPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return &MutationError{URL: url, Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &MutationError{URL: url, Cause: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))

	c.log.Debug("POST %s -> %d", url, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &MutationError{URL: url, StatusCode: resp.StatusCode, Cause: ErrUnexpectedStatus}
	}
	return nil
}

// parseSnapshot decodes a status body. The servers key must be present,
// every record must carry all fields, and ids must be non-empty and unique.
// Nothing but whitespace may follow the object.
func parseSnapshot(body []byte) (Snapshot, error) {
	var payload statusPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after status object", ErrMalformedPayload)
	}
	if payload.Servers == nil {
		return nil, fmt.Errorf("%w: missing servers list", ErrMalformedPayload)
	}

	wire := *payload.Servers
	servers := make(Snapshot, 0, len(wire))
	seen := make(map[ServerID]struct{}, len(wire))
	for i, w := range wire {
		s, err := w.record()
		if err != nil {
			return nil, fmt.Errorf("%w: server at index %d %v", ErrMalformedPayload, i, err)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("%w: server at index %d has no id", ErrMalformedPayload, i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate server id %q", ErrMalformedPayload, s.ID)
		}
		seen[s.ID] = struct{}{}
		servers = append(servers, s)
	}
	return servers, nil
}
