package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default MaxBodySize is 10MiB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 10*1024*1024 {
			t.Errorf("expected MaxBodySize to be 10MiB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default MaxRedirects is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxRedirects != 10 {
			t.Errorf("expected MaxRedirects to be 10, got %d", cfg.MaxRedirects)
		}
	})

	t.Run("default UserAgent identifies pagescrape", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cfg.UserAgent, "pagescrape/") {
			t.Errorf("expected pagescrape user agent, got %q", cfg.UserAgent)
		}
	})

	t.Run("default output is colored text on stdout", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport || cfg.ReportFile != "" {
			t.Error("expected plain text report to stdout")
		}
		if cfg.Color != ColorAuto {
			t.Errorf("expected color mode auto, got %q", cfg.Color)
		}
	})

	t.Run("history is opt-in", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"https://example.com"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "no targets", mutate: func(c *Config) { c.Targets = nil }, wantErr: ErrNoTarget},
		{name: "relative target", mutate: func(c *Config) { c.Targets = []string{"example.com"} }, wantErr: ErrInvalidTarget},
		{name: "ftp target", mutate: func(c *Config) { c.Targets = []string{"ftp://example.com"} }, wantErr: ErrInvalidTarget},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{name: "json and markdown", mutate: func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, wantErr: ErrConflictingReportFormats},
		{name: "zero body size", mutate: func(c *Config) { c.MaxBodySize = 0 }, wantErr: ErrInvalidMaxBodySize},
		{name: "negative redirects", mutate: func(c *Config) { c.MaxRedirects = -1 }, wantErr: ErrInvalidMaxRedirects},
		{name: "bad proxy", mutate: func(c *Config) { c.ProxyAddress = "localhost" }, wantErr: ErrInvalidProxy},
		{name: "good proxy", mutate: func(c *Config) { c.ProxyAddress = "socks5://127.0.0.1:9050" }},
		{name: "bad color mode", mutate: func(c *Config) { c.Color = "rainbow" }, wantErr: ErrInvalidColorMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRequestSettings(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: SiteConfig{Headers: map[string]string{"Accept-Language": "en"}},
		Sites: map[string]SiteConfig{
			"shop.example.com": {
				UserAgent: "shop-bot/1.0",
				Cookie:    "session=site",
				Headers:   map[string]string{"X-Site": "1"},
			},
		},
	}

	t.Run("site entry applies to its host", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.SiteConfigs = file
		got := cfg.RequestSettings("https://shop.example.com/cart")

		if got.UserAgent != "shop-bot/1.0" {
			t.Errorf("expected site user agent, got %q", got.UserAgent)
		}
		if got.Cookie != "session=site" {
			t.Errorf("expected site cookie, got %q", got.Cookie)
		}
		if got.Headers["X-Site"] != "1" || got.Headers["Accept-Language"] != "en" {
			t.Errorf("expected merged headers, got %v", got.Headers)
		}
	})

	t.Run("command line values win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.SiteConfigs = file
		cfg.UserAgent = "cli-agent"
		cfg.Cookie = "session=cli"
		cfg.Headers = map[string]string{"X-Site": "cli"}
		got := cfg.RequestSettings("https://shop.example.com/")

		if got.UserAgent != "cli-agent" || got.Cookie != "session=cli" || got.Headers["X-Site"] != "cli" {
			t.Errorf("expected command line values, got %+v", got)
		}
	})

	t.Run("other hosts get defaults only", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.SiteConfigs = file
		got := cfg.RequestSettings("https://other.example.com/")

		if got.UserAgent != DefaultUserAgent || got.Cookie != "" {
			t.Errorf("expected defaults, got %+v", got)
		}
		if got.Headers["Accept-Language"] != "en" {
			t.Errorf("expected default header, got %v", got.Headers)
		}
	})

	t.Run("no config file", func(t *testing.T) {
		t.Parallel()

		got := NewConfig().RequestSettings("https://example.com/")
		if got.UserAgent != DefaultUserAgent || len(got.Headers) != 0 {
			t.Errorf("expected bare defaults, got %+v", got)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("parses sites and defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `defaults:
  userAgent: "custom/1.0"
sites:
  example.com:
    cookie: "a=b"
    headers:
      X-Token: "t"
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile returned error: %v", err)
		}
		if cf.Defaults.UserAgent != "custom/1.0" {
			t.Errorf("expected default user agent, got %q", cf.Defaults.UserAgent)
		}
		site := cf.GetSiteConfig("example.com")
		if site.Cookie != "a=b" || site.Headers["X-Token"] != "t" || site.UserAgent != "custom/1.0" {
			t.Errorf("unexpected site config: %+v", site)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [unterminated"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("empty file initializes sites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile returned error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites to be initialized")
		}
	})
}

func TestGetSiteConfigDoesNotMutateDefaults(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{Headers: map[string]string{"A": "1"}},
		Sites:    map[string]SiteConfig{"x.example": {Headers: map[string]string{"B": "2"}}},
	}
	_ = cf.GetSiteConfig("x.example")
	if _, ok := cf.Defaults.Headers["B"]; ok {
		t.Error("site headers leaked into defaults")
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path that exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
