package httpclient

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// HTML parses the body as an HTML document.
func (r *Response) HTML() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
