package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/pagescrape/internal/config"
	"github.com/nao1215/pagescrape/internal/database"
	"github.com/nao1215/pagescrape/internal/fetch"
	"github.com/nao1215/pagescrape/internal/model"
	"github.com/nao1215/pagescrape/internal/pipeline"
	"github.com/nao1215/pagescrape/internal/report"
)

// errInvalidHeader is returned for a --header value without a colon.
var errInvalidHeader = errors.New(`invalid header: expected "Key: Value"`)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url>...",
		Short: "Fetch pages and extract URLs, emails, and phone numbers",
		Long: `Scrape fetches each URL once and prints the URLs, email addresses,
phone numbers, and a/img tag references found in the page.

Each category is deduplicated. A page that cannot be fetched is reported
as an error and the exit status is non-zero, but the other targets are
still scraped.

Settings are read from, in increasing priority: the configuration file
(.pagescrape), a .env file and PAGESCRAPE_* environment variables, and
command line flags.

Examples:
  # Scrape a single page
  pagescrape scrape https://example.com

  # Scrape several pages, two at a time, as JSON
  pagescrape scrape -b 2 --json https://example.com https://example.org

  # Send a cookie and a custom header
  pagescrape scrape --cookie "session=abc" -H "Authorization: Bearer token" https://example.com

  # Fetch through Tor
  pagescrape scrape --proxy 127.0.0.1:9050 http://example.onion

  # Save the result so it can be compared later with 'pagescrape history'
  pagescrape scrape --save https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScrapeCmd,
	}

	// Request flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra request header as "Key: Value" (repeatable)`)
	cmd.Flags().String("cookie", "",
		"Cookie header sent to every target")
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes; larger bodies are truncated")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Maximum number of redirects to follow")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scrapes")

	// Configuration
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagescrape in current or home directory)")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"dotenv file with PAGESCRAPE_* variables")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("color", config.ColorAuto,
		"Color the text report: auto, always, or never")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Save results to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScrape(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig creates a Config from defaults, the environment, the
// configuration file, and the flags that were set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, envFile); err != nil {
		return nil, err
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}

	if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
		return nil, err
	}
	rawHeaders, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	if cfg.Headers, err = parseHeaders(rawHeaders); err != nil {
		return nil, err
	}
	if cfg.MaxRedirects, err = flags.GetInt("max-redirects"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Color, err = flags.GetString("color"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicit config path must exist; otherwise a missing file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		if cfg.SiteConfigs, err = config.LoadConfigFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	cfg.Targets = args
	return cfg, nil
}

// parseHeaders converts "Key: Value" strings into a map.
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidHeader, h)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// runScrape scrapes every target, writes the report to out (or the
// configured file), and saves the results when requested. The returned
// error joins the failures of individual targets.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting scrape",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"proxy", cfg.ProxyAddress,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.ScrapeDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	fetchers := make(map[string]*fetch.Fetcher, len(cfg.Targets))
	for _, target := range cfg.Targets {
		if _, ok := fetchers[target]; ok {
			continue
		}
		f, err := newFetcherForTarget(cfg, target, logger)
		if err != nil {
			return fmt.Errorf("failed to create fetcher for %s: %w", target, err)
		}
		fetchers[target] = f
	}

	bp := pipeline.NewBatchProcessor(
		func(target string) *pipeline.Pipeline {
			return pipeline.DefaultPipeline(fetchers[target], pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	results, batchErr := bp.ProcessBatch(ctx, cfg.Targets)
	logger.Info("scrape finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, results, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if db != nil {
		for _, r := range results {
			if err := saveScrapeResult(ctx, db, r, logger); err != nil {
				logger.Error("failed to save scrape result", "target", r.Target, "error", err)
			}
		}
	}

	if batchErr != nil && !errors.Is(batchErr, context.Canceled) && !errors.Is(batchErr, context.DeadlineExceeded) {
		return batchErr
	}
	return pipeline.JoinErrors(results)
}

// newFetcherForTarget builds a fetcher with the request settings that
// apply to target.
func newFetcherForTarget(cfg *config.Config, target string, logger *slog.Logger) (*fetch.Fetcher, error) {
	settings := cfg.RequestSettings(target)

	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(settings.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithMaxRedirects(cfg.MaxRedirects),
		fetch.WithLogger(logger),
	}
	if settings.Cookie != "" {
		opts = append(opts, fetch.WithCookie(settings.Cookie))
	}
	if len(settings.Headers) > 0 {
		opts = append(opts, fetch.WithHeaders(settings.Headers))
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetch.WithProxy(cfg.ProxyAddress))
	}

	return fetch.NewFetcher(opts...)
}

// outputReport writes results in the requested format to the report file,
// or to out when no file is configured.
func outputReport(cfg *config.Config, results []*model.ScrapeResult, out io.Writer) error {
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain cookies echoed back by the page.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	_, err := newReportWriter(cfg, out, len(results) > 1).Write(results)
	return err
}

// newReportWriter selects the writer for the configured report format.
func newReportWriter(cfg *config.Config, out io.Writer, multiTarget bool) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	}

	opts := []report.SimpleWriterOption{report.WithTargetBanner(multiTarget)}
	switch cfg.Color {
	case config.ColorAlways:
		opts = append(opts, report.WithColor(true))
	case config.ColorNever:
		opts = append(opts, report.WithColor(false))
	default:
		if cfg.ReportFile != "" {
			opts = append(opts, report.WithColor(false))
		}
	}
	return report.NewSimpleWriter(out, opts...)
}

// saveScrapeResult stores r in db. If db is nil, this function is a no-op.
func saveScrapeResult(ctx context.Context, db *database.ScrapeDB, r *model.ScrapeResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	// Save even when ctx was cancelled so partial runs are kept.
	id, err := db.SaveScrapeResult(context.WithoutCancel(ctx), r)
	if err != nil {
		return err
	}

	logger.Info("scrape result saved", "target", r.Target, "id", id)
	return nil
}
