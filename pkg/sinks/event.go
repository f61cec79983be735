package sinks

import (
	"strconv"
	"time"

	"github.com/samvad-hq/restkit/internal/domain"
)

// Event represents the payload forwarded downstream.
type Event struct {
	Exchange domain.Exchange `json:"exchange"`
	SentAt   time.Time       `json:"sent_at"`
}

// NewEvent wraps an exchange for delivery.
func NewEvent(ex domain.Exchange) Event {
	return Event{
		Exchange: ex,
		SentAt:   time.Now().UTC(),
	}
}

// attributes returns the message attributes shared by queue-style sinks.
// Empty values are omitted since SQS and SNS reject them.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"method": e.Exchange.Method,
	}
	if e.Exchange.Profile != "" {
		attrs["profile"] = e.Exchange.Profile
	}
	if e.Exchange.StatusCode != 0 {
		attrs["status_code"] = strconv.Itoa(e.Exchange.StatusCode)
	}
	return attrs
}
