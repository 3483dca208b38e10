package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// IdempotencyKeyHeader matches the header read by the idempotency middleware.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayHeader is set on responses served from the idempotency cache.
	ReplayHeader = "Idempotent-Replay"

	readyPath = "/ready"
)

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHttpClient(baseURL string) *HttpClient {
	return &HttpClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Response keeps the body read so callers can inspect it after the
// connection is released.
type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) Replayed() bool {
	return r.Header.Get(ReplayHeader) == "true"
}

// ErrorMessage extracts the error text of a failed call, falling back to the
// raw body when it is not an error envelope.
func (r *Response) ErrorMessage() string {
	var envelope struct {
		Error   string         `json:"error"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := r.DecodeJSON(&envelope); err != nil || envelope.Error == "" {
		return strings.TrimSpace(string(r.Body))
	}

	msg := envelope.Error
	if envelope.Code != "" {
		msg = envelope.Code + ": " + msg
	}
	if len(envelope.Details) > 0 {
		msg += fmt.Sprintf(" %v", envelope.Details)
	}
	return msg
}

func (c *HttpClient) GET(path string) (*Response, error) {
	return c.send(http.MethodGet, path, nil, nil)
}

func (c *HttpClient) POST(path string, body any) (*Response, error) {
	return c.send(http.MethodPost, path, body, nil)
}

func (c *HttpClient) PATCH(path string, body any) (*Response, error) {
	return c.send(http.MethodPatch, path, body, nil)
}

func (c *HttpClient) PUT(path string, body any) (*Response, error) {
	return c.send(http.MethodPut, path, body, nil)
}

func (c *HttpClient) DELETE(path string) (*Response, error) {
	return c.send(http.MethodDelete, path, nil, nil)
}

func (c *HttpClient) POSTWithHeaders(path string, body any, headers map[string]string) (*Response, error) {
	return c.send(http.MethodPost, path, body, headers)
}

func (c *HttpClient) send(method, path string, body any, headers map[string]string) (*Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	return &Response{Response: resp, Body: data}, nil
}

// WaitForReady polls the readiness endpoint until it answers 200 or ctx ends.
func (c *HttpClient) WaitForReady(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastStatus int
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+readyPath, nil)
		if err != nil {
			return fmt.Errorf("failed to create readiness request: %w", err)
		}
		if resp, err := c.HTTPClient.Do(req); err == nil {
			lastStatus = resp.StatusCode
			resp.Body.Close()
			if lastStatus == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("service at %s not ready (last status %d): %w", c.BaseURL, lastStatus, ctx.Err())
		case <-ticker.C:
		}
	}
}
