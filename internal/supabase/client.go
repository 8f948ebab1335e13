// Package supabase talks to the Supabase PostgREST backend that owns the
// expenses, crypto and users tables. Every operation maps to a single HTTP
// request; there are no retries and no backoff.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"portfel/internal/log"
)

// Client issues CRUD requests against one Supabase project.
// Both credential headers are derived from the same API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *log.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithComponent(log.ComponentSupabase),
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// do issues one request and normalizes failures into classified errors.
// A non-nil response always has a 2xx status; the caller owns its body.
func (c *Client) do(ctx context.Context, op, method, path string, body any, prefer string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Kind: KindDecode, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}

	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		req.Header.Set("Accept", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Request failed",
			log.FieldOperation, op, log.FieldError, err)
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.logger.WarnContext(ctx, "Request rejected",
			log.FieldOperation, op, log.FieldStatus, resp.StatusCode)
		return nil, &Error{Op: op, Kind: KindStatus, Status: resp.StatusCode}
	}

	return resp, nil
}

// drain consumes and closes a response body whose content is not needed.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func eqID(id int) string {
	return "id=eq." + strconv.Itoa(id)
}

func eqOwner(ownerID int) string {
	return "user_id=eq." + strconv.Itoa(ownerID)
}
