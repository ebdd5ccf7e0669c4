// Package client is a Go SDK for the relay. It mirrors the dashboard's
// service layer: every call terminates in a uniform response envelope, the
// session rides in a cookie jar, and the authenticated user is mirrored
// into a local store for instant restoration.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"go.uber.org/zap"
)

// ApiResponse is the uniform envelope decoupling callers from transport
// errors. Success=false with Error set covers HTTP failures, network
// errors, and backend rejections alike; callers never see an exception.
type ApiResponse struct {
	Success bool
	Data    json.RawMessage
	Error   string
}

// Decode unmarshals the envelope's data into v.
func (r ApiResponse) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("client: response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// Client issues authenticated requests against the relay. The cookie jar
// carries the session cookie; the token itself is never exposed here.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Jar: jar},
		Logger:  logger,
	}
}

// Request performs one call and normalizes the outcome into the envelope.
// Caller headers are merged over the JSON defaults. This never returns an
// error: all failures are converted into the envelope.
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}, headers http.Header) ApiResponse {
	target := endpoint
	if !strings.HasPrefix(endpoint, "http") {
		target = c.BaseURL + endpoint
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return ApiResponse{Success: false, Error: "failed to encode request body"}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return ApiResponse{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Warn("Request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return ApiResponse{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ApiResponse{Success: false, Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ApiResponse{Success: false, Error: extractError(data, resp.StatusCode)}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return ApiResponse{Success: true, Data: data}
	}

	// Non-JSON 2xx: hand the text back as data. This guards against the
	// backend occasionally answering with an HTML page.
	text, _ := json.Marshal(string(data))
	return ApiResponse{Success: true, Data: text}
}

// extractError mines an error body for its error/message field, falling
// back to the raw text, falling back to the status code.
func extractError(body []byte, status int) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP error: status %d", status)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string) ApiResponse {
	return c.Request(ctx, http.MethodGet, endpoint, nil, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) ApiResponse {
	return c.Request(ctx, http.MethodPost, endpoint, body, nil)
}

// Put issues a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body interface{}) ApiResponse {
	return c.Request(ctx, http.MethodPut, endpoint, body, nil)
}

// Patch issues a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}) ApiResponse {
	return c.Request(ctx, http.MethodPatch, endpoint, body, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) ApiResponse {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, nil)
}
