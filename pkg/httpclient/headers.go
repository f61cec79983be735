package httpclient

import (
	"fmt"
	"strings"
)

const headerContentType = "Content-Type"

// MergeHeaders combines default and per-call headers. Keys are compared
// case-sensitively and per-call values win on collision.
func MergeHeaders(defaults, call map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(call))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range call {
		out[k] = v
	}
	return out
}

// ParseHeaderBlock turns a raw CRLF separated header block into a map with
// lower-cased keys. Lines without ": " (such as the status line) are skipped.
func ParseHeaderBlock(block string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(block), "\r\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		headers[strings.ToLower(key)] = value
	}
	return headers
}

// validateHeaders converts an untyped header map, rejecting any key or value that is not a string.
func validateHeaders(headers map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("header %q has %T value: %w", k, v, ErrInvalidHeader)
		}
		out[k] = s
	}
	return out, nil
}

// lookupFold returns the value of the first key matching name case-insensitively.
func lookupFold(headers map[string]string, name string) (string, bool) {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func copyHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}
