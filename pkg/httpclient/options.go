package httpclient

import (
	"fmt"
	"time"
)

// Option mutates the Client during New().
type Option func(*Client) error

// WithHeaders sets the default headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) error {
		c.SetHeaders(headers)
		return nil
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %s", d)
		}
		c.timeout = d
		return nil
	}
}

// WithTimeoutSeconds is WithTimeout expressed in whole seconds.
func WithTimeoutSeconds(seconds int) Option {
	return WithTimeout(time.Duration(seconds) * time.Second)
}

// WithVerifyTLS toggles TLS certificate and host verification.
func WithVerifyTLS(verify bool) Option {
	return func(c *Client) error {
		c.verifyTLS = verify
		return nil
	}
}

// WithTransport injects the Transport that performs the exchange.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return fmt.Errorf("nil transport")
		}
		c.transport = t
		return nil
	}
}

// WithLogger routes request traces to log.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}
