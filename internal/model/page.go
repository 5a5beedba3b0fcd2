package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Page represents a fetched web page.
// Raw holds the decoded body; everything else is response metadata.
type Page struct {
	// URL is the URL that was requested.
	URL string `json:"url"`

	// FinalURL is the URL after redirects were followed.
	// Equal to URL when no redirect happened.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers in canonical form.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the media type from the Content-Type header, without parameters.
	ContentType string `json:"content_type"`

	// Charset is the name of the encoding the body was decoded from.
	Charset string `json:"charset,omitempty"`

	// Raw contains the response body converted to UTF-8.
	// Limited to the configured maximum body size.
	Raw []byte `json:"-"`

	// Size is the number of body bytes read from the wire.
	Size int64 `json:"size"`

	// Truncated reports whether the body was cut at the size limit.
	Truncated bool `json:"truncated,omitempty"`

	// Hash is the SHA-256 hash of Raw, hex encoded.
	Hash string `json:"hash"`

	// FetchDuration is how long the request took, including body reads.
	FetchDuration time.Duration `json:"fetch_duration"`
}

// ComputeHash calculates and sets the SHA-256 hash of the page's raw content.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// GetHeader returns the first value of the specified header.
// Returns empty string if the header is not present.
func (p *Page) GetHeader(name string) string {
	if values, ok := p.Headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// IsHTML returns true if the page content type indicates HTML.
// An empty content type is treated as HTML because servers often omit it.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/html") ||
		ct == "application/xhtml+xml"
}

// IsSuccess returns true for 2xx responses.
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}
