// Package hubclient implements the remote preference port against a prefs
// hub server over HTTP. It satisfies both pref.RemoteBackend and
// pref.ConnectivityChecker.
package hubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/papercomputeco/prefs/pkg/pref"
)

const defaultTimeout = 15 * time.Second

// Client talks to a prefs hub.
type Client struct {
	baseURL  string
	identity string
	token    string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a Client bound to the hub at target, scoped to the given
// identity.
func New(target, identity string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("hub target is required")
	}
	if strings.TrimSpace(identity) == "" {
		return nil, fmt.Errorf("identity is required")
	}

	if _, err := url.Parse(target); err != nil {
		return nil, fmt.Errorf("invalid hub target: %w", err)
	}

	c := &Client{
		baseURL:  strings.TrimRight(target, "/"),
		identity: identity,
		http:     &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// fetchAllResponse mirrors the hub's GET /v0/prefs/:identity payload.
type fetchAllResponse struct {
	Identity    string                     `json:"identity"`
	Preferences map[string]pref.TypedValue `json:"preferences"`
}

// FetchAll returns every preference the hub stores for the client's
// identity. A 401 or 403 response maps to (nil, nil): the hub is reachable
// but this identity is not ready, which drives the loader's retry schedule
// rather than an error path.
func (c *Client) FetchAll(ctx context.Context) (map[string]pref.TypedValue, error) {
	endpoint := fmt.Sprintf("%s/v0/prefs/%s", c.baseURL, url.PathEscape(c.identity))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching preferences: unexpected status %d", resp.StatusCode)
	}

	var payload fetchAllResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}

	if payload.Preferences == nil {
		payload.Preferences = map[string]pref.TypedValue{}
	}
	return payload.Preferences, nil
}

// Upsert stores one preference on the hub.
func (c *Client) Upsert(ctx context.Context, key string, value pref.TypedValue) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}

	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding preference: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v0/prefs/%s/%s",
		c.baseURL,
		url.PathEscape(c.identity),
		url.PathEscape(key),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upserting preference: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upserting preference: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// Online reports whether the hub answers its ping endpoint. It satisfies
// pref.ConnectivityChecker so the loader can gate fetch attempts on hub
// reachability.
func (c *Client) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
