package httpclient

import (
	"encoding/json"
	"strings"
)

// Response is the immutable result of one exchange.
type Response struct {
	body       []byte
	statusCode int
	headers    map[string]string
}

// NewResponse builds a Response. Header keys are expected in lower case, as
// produced by ParseHeaderBlock.
func NewResponse(body []byte, statusCode int, headers map[string]string) *Response {
	return &Response{
		body:       append([]byte(nil), body...),
		statusCode: statusCode,
		headers:    copyHeaders(headers),
	}
}

func (r *Response) StatusCode() int { return r.statusCode }

// Headers returns a copy of the lower-cased header map.
func (r *Response) Headers() map[string]string { return copyHeaders(r.headers) }

// Header looks up a single header. The key is lower-cased before lookup so it
// matches the stored form regardless of the caller's casing.
func (r *Response) Header(key string) (string, bool) {
	v, ok := r.headers[strings.ToLower(key)]
	return v, ok
}

// Content returns a copy of the raw body.
func (r *Response) Content() []byte { return append([]byte(nil), r.body...) }

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.body) }

// JSON decodes the body into a generic value. The boolean is false when the
// body is not valid JSON or is the literal null; neither is treated as an error.
func (r *Response) JSON() (any, bool) {
	var v any
	if err := json.Unmarshal(r.body, &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// DecodeJSON decodes the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// IsSuccessful reports whether the status code is in the 2xx range.
func (r *Response) IsSuccessful() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}
