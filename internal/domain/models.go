package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Exchange summarizes one request/response pair issued through restkit.
type Exchange struct {
	ID          string            `json:"id"`
	Profile     string            `json:"profile,omitempty"`
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	StatusCode  int               `json:"status_code,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	BodySnippet string            `json:"body_snippet,omitempty"`
	Error       string            `json:"error,omitempty"`
	DurationMs  int64             `json:"duration_ms"`
	At          time.Time         `json:"at"`
}

// NewExchange stamps a fresh exchange with an id and the current time.
func NewExchange(profile, method, url string) Exchange {
	return Exchange{
		ID:      uuid.NewString(),
		Profile: profile,
		Method:  method,
		URL:     url,
		At:      time.Now().UTC(),
	}
}

// Snippet trims body to at most max bytes for logs and events, never
// splitting a UTF-8 sequence.
func Snippet(body []byte, max int) string {
	s := strings.TrimSpace(string(body))
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
