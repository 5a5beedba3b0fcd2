package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Fetch errors.
var (
	// ErrInvalidURL is returned when the target cannot be parsed or has no host.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnsupportedScheme is returned for targets that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme: expected http or https")

	// ErrBodyTooLarge is returned together with a truncated page when the
	// body exceeded the size limit. It is not fatal.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrTooManyRedirects is returned when the redirect limit was reached.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port" with an optional socks5:// prefix.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// StatusError describes a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}
