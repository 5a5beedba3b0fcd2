package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/pagescrape/internal/fetch"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a single page fetch, body included.
	DefaultTimeout = fetch.DefaultTimeout

	// DefaultBatchSize is the number of targets scraped concurrently.
	DefaultBatchSize = 4

	// DefaultMaxBodySize limits the response body size to read.
	// Larger bodies are truncated and a warning is logged.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize

	// DefaultMaxRedirects is the number of redirects followed before giving up.
	DefaultMaxRedirects = fetch.DefaultMaxRedirects

	// DefaultUserAgent identifies pagescrape in HTTP requests.
	DefaultUserAgent = fetch.DefaultUserAgent

	// AppName is the application name used for XDG directory paths.
	AppName = "pagescrape"
)

// Color modes for the text report.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all configuration options for one pagescrape invocation.
// It is populated from defaults, the environment, and CLI flags, in that order.
type Config struct {
	// Targets is the list of page URLs to scrape.
	Targets []string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with requests.
	// A site entry in the config file replaces it only while it is the default.
	UserAgent string

	// Cookie is a raw cookie string sent to every target.
	Cookie string

	// Headers are extra request headers sent to every target.
	Headers map[string]string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects followed.
	MaxRedirects int

	// BatchSize is the number of concurrent scrapes for multiple targets.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the configuration file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// Color is the color mode of the text report: auto, always, or never.
	Color string

	// SaveToDB records results in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		MaxRedirects: DefaultMaxRedirects,
		BatchSize:    DefaultBatchSize,
		Color:        ColorAuto,
		DBDir:        XDGDataDir(),
		Headers:      map[string]string{},
	}
}

// XDGDataDir returns the XDG data directory for pagescrape.
// On Linux: ~/.local/share/pagescrape
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pagescrape.
// On Linux: ~/.config/pagescrape
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	for _, target := range c.Targets {
		if _, err := fetch.ValidateURL(target); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
		}
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}

	if c.ProxyAddress != "" {
		if _, err := fetch.ParseProxyAddress(c.ProxyAddress); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProxy, err)
		}
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ErrInvalidColorMode
	}

	return nil
}

// RequestSettings returns the cookie, headers, and user agent to use for
// target. Values from the configuration file are merged first, then values
// from the command line override them.
func (c *Config) RequestSettings(target string) SiteConfig {
	var site SiteConfig
	if c.SiteConfigs != nil {
		site = c.SiteConfigs.GetSiteConfig(hostOf(target))
	}

	result := SiteConfig{
		UserAgent: c.UserAgent,
		Cookie:    site.Cookie,
		Headers:   make(map[string]string, len(site.Headers)+len(c.Headers)),
	}
	if site.UserAgent != "" && c.UserAgent == DefaultUserAgent {
		result.UserAgent = site.UserAgent
	}
	if c.Cookie != "" {
		result.Cookie = c.Cookie
	}
	for k, v := range site.Headers {
		result.Headers[k] = v
	}
	for k, v := range c.Headers {
		result.Headers[k] = v
	}
	return result
}
