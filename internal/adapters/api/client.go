// Package api is the typed HTTP client for the remote reservations API. The
// remote service owns persistence, conflict detection and business validation;
// this package owns transport, bearer credentials, field-level wire encodings
// and the short-lived response cache.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CredentialSource supplies the current bearer credential, or "" when no
// session is active. The session store implements it.
type CredentialSource interface {
	Credential() string
}

// cacheTTL bounds how stale a cached list response may be. The cache is a
// best-effort read accelerator, not a source of truth: every mutation purges it.
const cacheTTL = 5 * time.Second

const cacheSize = 32

// Client is the base HTTP client shared by the entity gateways.
type Client struct {
	baseURL        string
	httpc          *http.Client
	creds          CredentialSource
	cache          *expirable.LRU[string, []byte]
	onUnauthorized func()

	Auth         *AuthGateway
	Classrooms   *ClassroomGateway
	TimeSlots    *TimeSlotGateway
	Reservations *ReservationGateway
}

// New creates a Client rooted at baseURL. Timeouts are the transport's
// defaults; the core defines no retry or backoff policy.
func New(baseURL string, creds CredentialSource) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
		creds:   creds,
		cache:   expirable.NewLRU[string, []byte](cacheSize, nil, cacheTTL),
	}
	c.Auth = &AuthGateway{c: c}
	c.Classrooms = &ClassroomGateway{c: c}
	c.TimeSlots = &TimeSlotGateway{c: c}
	c.Reservations = &ReservationGateway{c: c}
	return c
}

// SetUnauthorizedHook registers the global authorization-failure handler. It
// runs once per rejected call, before the error is returned to the caller.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// SetHTTPClient replaces the underlying transport. Intended for tests.
func (c *Client) SetHTTPClient(httpc *http.Client) {
	c.httpc = httpc
}

// do performs one API call. GET responses are served from and fed into the
// short-lived cache; any other method purges it so list snapshots re-fetch
// fresh data after a mutation.
// PRE: path starts with "/"
// POST: out is populated on 2xx; a 401 fires the unauthorized hook
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if method == http.MethodGet {
		if cached, ok := c.cache.Get(path); ok {
			return decodeBody(cached, out)
		}
	} else {
		c.cache.Purge()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred := c.creds.Credential(); cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		slog.Warn("api_event", "event", "unauthorized", "method", method, "path", path)
		c.cache.Purge()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if method == http.MethodGet {
		c.cache.Add(path, raw)
	}
	return decodeBody(raw, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func decodeBody(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
