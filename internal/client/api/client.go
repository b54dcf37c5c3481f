// Package api is the HTTP binding to the CodeTrack backend: a client whose
// transport carries the session's bearer token on every request, plus the
// small set of calls the session lifecycle and the CLI pages need.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codetrack-app/codetrack/internal/client/session"
	"github.com/codetrack-app/codetrack/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client bound to the given token source. All requests
// time out after timeout.
func NewClient(baseURL string, source TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &bearerTransport{source: source},
			Timeout:   timeout,
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Verify exchanges the attached bearer token for a confirmed user identity.
// Implements session.Verifier.
func (c *Client) Verify(ctx context.Context) (*session.User, error) {
	body, err := c.get(ctx, "/auth/verify")
	if err != nil {
		return nil, err
	}
	return session.DecodeUser(body)
}

// CurrentUser fetches the profile of the signed-in user.
func (c *Client) CurrentUser(ctx context.Context) (*session.User, error) {
	body, err := c.get(ctx, "/users/current")
	if err != nil {
		return nil, err
	}
	return session.DecodeUser(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, common.ErrorUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// mapTransportError folds the transport-level failure modes into the shared
// sentinels: timeouts and connection failures both mean the backend is
// unreachable.
func (c *Client) mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrorUnavailable
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return common.ErrorUnavailable
		}
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, urlErr.Err)
	}
	return err
}
