package sinks

import "context"

// Sink forwards exchange events to a downstream destination (SQS, SNS, Pub/Sub, HTTP).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
}
