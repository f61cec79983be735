package httpclient

import (
	"context"
	"time"
)

// RawRequest is everything a Transport needs to perform one exchange.
type RawRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	// FormFields is set instead of Body for multipart requests; the transport
	// encodes it natively.
	FormFields map[string]string
	Timeout    time.Duration
	VerifyTLS  bool
}

// RawResult is the unparsed outcome of an exchange. Raw holds the header block
// followed by the body; HeaderSize is the length of the header block.
type RawResult struct {
	Raw        []byte
	HeaderSize int
	StatusCode int
}

// Transport abstracts the network exchange so callers can inject mocks or different transports.
type Transport interface {
	Do(ctx context.Context, req RawRequest) (RawResult, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req RawRequest) (RawResult, error)

func (f TransportFunc) Do(ctx context.Context, req RawRequest) (RawResult, error) {
	return f(ctx, req)
}

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}
