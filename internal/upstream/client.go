// Package upstream is the typed client for the garment backend API. The
// gateway owns no data: every read and every mutation in this package is a
// plain REST call scoped by branch and authorized by the caller's bearer
// token, which is injected per request rather than read from any ambient
// storage.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized marks a 401/403 from the backend; the screens turn it
// into a redirect to login.
var ErrUnauthorized = errors.New("upstream rejected the session")

// Client talks to the backend API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given API base URL (no trailing slash
// required).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError is the error envelope the backend answers with.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusError carries a failed call's status and the backend's own message,
// so screens can pass both through to the browser unchanged.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// do performs one request: token injected, body JSON-encoded, result
// JSON-decoded. Non-2xx responses become errors carrying the backend's own
// message when it sent one; 401/403 map to ErrUnauthorized.
func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(raw, &ae) == nil {
			if ae.Error != "" {
				return &StatusError{Status: resp.StatusCode, Message: ae.Error}
			}
			if ae.Message != "" {
				return &StatusError{Status: resp.StatusCode, Message: ae.Message}
			}
		}
		return &StatusError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s %s: upstream status %d", method, path, resp.StatusCode),
		}
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func branchQuery(key, branchID string) url.Values {
	q := url.Values{}
	q.Set(key, branchID)
	return q
}
