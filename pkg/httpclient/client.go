package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds requests when no timeout option is given.
const DefaultTimeout = 30 * time.Second

// Client issues synchronous requests against a base URL with a set of default headers.
// A Client is not safe for concurrent use while SetHeaders is being called.
type Client struct {
	baseURL   string
	headers   map[string]string
	timeout   time.Duration
	verifyTLS bool
	transport Transport
	log       Logger
}

// New constructs a Client. Trailing slashes are stripped from baseURL, which
// may be empty when callers pass absolute URLs as endpoints.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		headers:   map[string]string{},
		timeout:   DefaultTimeout,
		verifyTLS: true,
		log:       noopLogger{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.transport == nil {
		c.transport = NewRestyTransport()
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request bound.
func (c *Client) Timeout() time.Duration { return c.timeout }

// VerifyTLS reports whether TLS certificates are verified.
func (c *Client) VerifyTLS() bool { return c.verifyTLS }

// Headers returns a copy of the default headers.
func (c *Client) Headers() map[string]string { return copyHeaders(c.headers) }

// SetHeaders replaces the default headers entirely.
func (c *Client) SetHeaders(headers map[string]string) {
	c.headers = copyHeaders(headers)
}

// SetHeadersAny replaces the default headers from an untyped map, as decoded
// from YAML or JSON. It fails with ErrInvalidHeader if any value is not a
// string, leaving the current headers unchanged.
func (c *Client) SetHeadersAny(headers map[string]any) error {
	validated, err := validateHeaders(headers)
	if err != nil {
		return err
	}
	c.headers = validated
	return nil
}

// BuildURL resolves endpoint against the base URL.
func (c *Client) BuildURL(endpoint string) string {
	return joinURL(c.baseURL, endpoint)
}

// Get performs a GET request. Blank endpoints fail with ErrEmptyEndpoint
// before the transport is contacted.
func (c *Client) Get(ctx context.Context, endpoint string, headers map[string]string) (*Response, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrEmptyEndpoint
	}
	return c.execute(ctx, RawRequest{
		Method:  http.MethodGet,
		URL:     c.BuildURL(endpoint),
		Headers: MergeHeaders(c.headers, headers),
	})
}

// Post performs a POST request. The body encoding follows the merged
// Content-Type header: JSON for application/json, a transport-encoded field
// map for multipart/form-data, and URL form encoding otherwise.
func (c *Client) Post(ctx context.Context, endpoint string, data any, headers map[string]string) (*Response, error) {
	req := RawRequest{
		Method:  http.MethodPost,
		URL:     c.BuildURL(endpoint),
		Headers: MergeHeaders(c.headers, headers),
	}

	contentType, hasContentType := lookupFold(req.Headers, headerContentType)
	switch mediaType(contentType) {
	case mimeJSON:
		body, err := encodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		req.Body = body
	case mimeMultipart:
		fields, err := formFields(data)
		if err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		req.FormFields = fields
	default:
		body, err := encodeForm(data)
		if err != nil {
			return nil, fmt.Errorf("encode form body: %w", err)
		}
		req.Body = body
		if !hasContentType {
			req.Headers[headerContentType] = mimeForm
		}
	}

	return c.execute(ctx, req)
}

func (c *Client) execute(ctx context.Context, req RawRequest) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Timeout = c.timeout
	req.VerifyTLS = c.verifyTLS

	c.log.DebugObj("http request", "http_request", map[string]any{
		"method":      req.Method,
		"url":         req.URL,
		"headers":     len(req.Headers),
		"body_bytes":  len(req.Body),
		"form_fields": len(req.FormFields),
	})

	start := time.Now()
	res, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	if res.HeaderSize < 0 || res.HeaderSize > len(res.Raw) {
		return nil, &TransportError{
			Method: req.Method,
			URL:    req.URL,
			Err:    fmt.Errorf("header size %d outside response of %d bytes", res.HeaderSize, len(res.Raw)),
		}
	}

	headers := ParseHeaderBlock(string(res.Raw[:res.HeaderSize]))
	resp := NewResponse(res.Raw[res.HeaderSize:], res.StatusCode, headers)

	c.log.DebugObj("http response", "http_response", map[string]any{
		"method":      req.Method,
		"url":         req.URL,
		"status_code": resp.StatusCode(),
		"body_bytes":  len(resp.body),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return resp, nil
}
