package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/pagescrape/internal/model"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodySize  = 10 * 1024 * 1024
	DefaultMaxRedirects = 10
	DefaultUserAgent    = "pagescrape/1.0 (+https://github.com/nao1215/pagescrape)"

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Fetcher retrieves single pages.
// It is safe for concurrent use once constructed.
type Fetcher struct {
	client       *http.Client
	logger       *slog.Logger
	userAgent    string
	cookie       string
	headers      map[string]string
	proxyAddress string
	timeout      time.Duration
	maxBodySize  int64
	maxRedirects int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds the whole request, body included.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCookie sends a raw cookie string (e.g. "session=abc") with every request.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sends extra headers with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithProxy routes connections through the SOCKS5 proxy at address.
func WithProxy(address string) Option {
	return func(f *Fetcher) {
		f.proxyAddress = address
	}
}

// WithMaxBodySize caps the number of body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithMaxRedirects caps the number of redirects followed.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRedirects = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher. It fails only if the proxy address is invalid.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		logger:       slog.Default(),
		userAgent:    DefaultUserAgent,
		timeout:      DefaultTimeout,
		maxBodySize:  DefaultMaxBodySize,
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(f)
	}

	client, err := f.newHTTPClient()
	if err != nil {
		return nil, err
	}
	f.client = client
	return f, nil
}

func (f *Fetcher) newHTTPClient() (*http.Client, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	}
	transport = transport.Clone()

	if f.proxyAddress != "" {
		dial, err := newProxyDialContext(f.proxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dial
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	var rt http.RoundTripper = transport
	if f.cookie != "" || len(f.headers) > 0 {
		rt = &headerInjectingTransport{
			base:    transport,
			cookie:  f.cookie,
			headers: f.headers,
		}
	}

	maxRedirects := f.maxRedirects
	return &http.Client{
		Transport: rt,
		Timeout:   f.timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}, nil
}

// ValidateURL parses rawURL and checks that it is an absolute http(s) URL.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidURL, rawURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return nil, fmt.Errorf("%w: %q has no scheme", ErrInvalidURL, rawURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, rawURL)
	}
	return u, nil
}

// Fetch performs a GET request for rawURL and returns the page.
//
// Responses outside the 2xx range are returned as pages, not errors; use
// CheckStatus to inspect them. When the body exceeds the size limit, Fetch
// returns the truncated page together with an error wrapping ErrBodyTooLarge.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	f.logger.Debug("fetching page", "url", u.String())
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u.String(), err)
	}
	defer resp.Body.Close()

	body, truncated, err := readLimited(resp.Body, f.maxBodySize)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", u.String(), err)
	}
	size := int64(len(body))

	contentType := resp.Header.Get("Content-Type")
	decoded, charsetName, err := decodeBody(body, contentType)
	if err != nil {
		f.logger.Warn("failed to decode body, using raw bytes", "url", u.String(), "error", err)
	}

	page := &model.Page{
		URL:           u.String(),
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		Headers:       resp.Header,
		ContentType:   mediaType(contentType),
		Charset:       charsetName,
		Raw:           decoded,
		Size:          size,
		Truncated:     truncated,
		FetchDuration: time.Since(start),
	}
	page.ComputeHash()

	f.logger.Debug("fetched page",
		"url", page.URL,
		"final_url", page.FinalURL,
		"status", page.StatusCode,
		"bytes", page.Size,
		"duration", page.FetchDuration,
	)

	if truncated {
		return page, fmt.Errorf("%w: kept first %d bytes of %s", ErrBodyTooLarge, f.maxBodySize, page.URL)
	}
	return page, nil
}

// CheckStatus returns a *StatusError when page has a non-2xx status.
func CheckStatus(page *model.Page) error {
	if page == nil || page.IsSuccess() {
		return nil
	}
	return &StatusError{URL: page.URL, StatusCode: page.StatusCode}
}

// readLimited reads at most limit bytes and reports whether more were available.
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// headerInjectingTransport adds the configured cookie and headers to every
// request, redirects included.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
