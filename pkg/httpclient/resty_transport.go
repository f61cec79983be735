package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport performs exchanges with resty and reports them in raw form:
// status line and headers, a blank line, then the body.
type RestyTransport struct {
	verifying *resty.Client
	insecure  *resty.Client
}

// NewRestyTransport creates a RestyTransport. Redirects are returned to the
// caller rather than followed and no cookie jar is kept.
func NewRestyTransport() *RestyTransport {
	insecure := newRestyBaseClient(0)
	insecure.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in via verifyTLS=false
	return &RestyTransport{
		verifying: newRestyBaseClient(0),
		insecure:  insecure,
	}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetCookieJar(nil)
	c.GetClient().CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// Do performs the request described by req.
func (t *RestyTransport) Do(ctx context.Context, req RawRequest) (RawResult, error) {
	client := t.verifying
	if !req.VerifyTLS {
		client = t.insecure
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	switch {
	case req.FormFields != nil:
		r.SetMultipartFormData(req.FormFields)
	case len(req.Body) > 0:
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return RawResult{}, err
	}
	return rawResult(resp), nil
}

// rawResult re-serializes a resty response into a header block followed by the body.
func rawResult(resp *resty.Response) RawResult {
	var buf bytes.Buffer
	if raw := resp.RawResponse; raw != nil {
		fmt.Fprintf(&buf, "%s %s\r\n", raw.Proto, raw.Status)
		keys := make([]string, 0, len(raw.Header))
		for k := range raw.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range raw.Header[k] {
				fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
			}
		}
	}
	buf.WriteString("\r\n")
	size := buf.Len()
	buf.Write(resp.Body())

	return RawResult{
		Raw:        buf.Bytes(),
		HeaderSize: size,
		StatusCode: resp.StatusCode(),
	}
}
