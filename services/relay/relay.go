// Package relay is the outbound half of the proxy: it carries dashboard
// requests to the scoring backend with the trust context (bearer token,
// originating client address) attached server-side.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fundiq/utils"

	"go.uber.org/zap"
)

// Request describes one forwarded call. Exactly one of JSONBody and
// RawBody may be set; RawBody is streamed byte-for-byte with ContentType
// preserved so multipart boundaries survive.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Token      string
	ClientAddr string

	JSONBody    interface{}
	RawBody     io.Reader
	ContentType string
}

// Response is the backend's reply with the body fully read, so handlers
// can classify it before deciding what the client gets to see.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsJSON reports whether the backend declared a JSON body. A 2xx with a
// non-JSON body is a protocol violation (usually an HTML error page) and
// handlers treat it as such.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Client forwards requests to the scoring backend.
type Client interface {
	Forward(ctx context.Context, req Request) (*Response, error)
}

// HTTPClient is the default Client over net/http. The underlying client
// carries no timeout: a hung backend call hangs the proxying request, and
// cancellation belongs to the inbound request's context.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Logger:  logger,
	}
}

// Forward builds and executes the backend call. Authorization and
// X-Forwarded-For are always attached here so no handler can forget them.
func (c *HTTPClient) Forward(ctx context.Context, req Request) (*Response, error) {
	target := c.BaseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.JSONBody != nil {
		payload, err := json.Marshal(req.JSONBody)
		if err != nil {
			return nil, fmt.Errorf("relay: failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	} else if req.RawBody != nil {
		body = req.RawBody
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("relay: failed to build request: %w", err)
	}

	if req.JSONBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
	} else if req.ContentType != "" {
		// Raw passthrough keeps the inbound Content-Type so multipart
		// boundaries stay intact.
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	addr := req.ClientAddr
	if addr == "" {
		addr = "unknown"
	}
	httpReq.Header.Set("X-Forwarded-For", addr)

	c.Logger.Debug("Forwarding to backend",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("client", addr),
		zap.String("token", utils.TokenPreview(req.Token)))

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		c.Logger.Warn("Backend call failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("relay: failed to read backend response: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
