package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/pagescrape/internal/config"
	"github.com/nao1215/pagescrape/internal/database"
	"github.com/nao1215/pagescrape/internal/model"
	"github.com/nao1215/pagescrape/internal/report"
)

// NewHistoryCmd creates the history command.
// It compares stored scrape results for a URL.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Compare stored scrape results",
		Long: `History shows what changed between runs saved with 'pagescrape scrape --save'.

By default the latest two runs for the URL are compared and the items that
appeared or disappeared are listed per category.

Examples:
  # Compare the latest two runs
  pagescrape history https://example.com

  # List stored runs for a URL
  pagescrape history --list https://example.com

  # Compare the latest run with a specific stored run
  pagescrape history --with-id 5 https://example.com

  # Output the diff as JSON
  pagescrape history --json https://example.com

  # List every URL in the database
  pagescrape history --list-urls`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List stored runs for the specified URL")
	cmd.Flags().BoolP("list-urls", "L", false,
		"List all URLs in the database")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare the latest run with the stored run with this ID (use --list to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the diff in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the diff in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	listURLs, err := flags.GetBool("list-urls")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var url string
	if !listURLs {
		if len(args) == 0 {
			return errors.New("url is required (use --list-urls to see stored URLs)")
		}
		url = args[0]
	}

	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	setupLogger(cmd)

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			return fmt.Errorf("%w (run 'pagescrape scrape --save <url>' first)", err)
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listURLs {
		return listScrapedURLs(ctx, db, out)
	}

	listHistory, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listScrapeHistory(ctx, db, url, out)
	}

	withID, err := flags.GetInt64("with-id")
	if err != nil {
		return err
	}

	diff, err := loadDiff(ctx, db, url, withID)
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out)
	}
	_, err = w.WriteDiff(diff)
	return err
}

// listScrapedURLs prints every URL with stored runs and its last fetch status.
func listScrapedURLs(ctx context.Context, db *database.ScrapeDB, out io.Writer) error {
	urls, err := db.ListScrapedURLs(ctx)
	if err != nil {
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(out, "No scraped URLs found in the database.")
		fmt.Fprintln(out, "\nUse 'pagescrape scrape --save <url>' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Scraped URLs (%d):\n\n", len(urls))
	for _, u := range urls {
		page, err := db.GetPage(ctx, u)
		if err != nil {
			return err
		}
		if page == nil {
			fmt.Fprintf(out, "  • %s  (no successful fetch)\n", u)
			continue
		}
		fmt.Fprintf(out, "  • %s  (status %d, %s)\n", u, page.StatusCode, page.FetchedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(out, "\nUse 'pagescrape history --list <url>' to see stored runs for a URL.")

	return nil
}

// listScrapeHistory prints the stored runs for url, newest first.
func listScrapeHistory(ctx context.Context, db *database.ScrapeDB, url string, out io.Writer) error {
	history, err := db.GetHistoryWithMetadata(ctx, url)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No stored runs found for %s\n", url)
		return nil
	}

	fmt.Fprintf(out, "Stored runs for %s (%d):\n\n", url, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %s\n", "ID", "Date", "Items")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %s\n",
			meta.ID,
			meta.ScrapedAt.Local().Format("2006-01-02 15:04:05"),
			formatCounts(meta),
		)
	}

	fmt.Fprintln(out, "\nUse 'pagescrape history <url>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'pagescrape history --with-id <id> <url>' to compare with a specific run.")

	return nil
}

// formatCounts renders per-category counts as "url:3 email:1 ...".
func formatCounts(meta database.ResultMetadata) string {
	if meta.Failed {
		return "failed"
	}
	parts := make([]string, 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		parts = append(parts, fmt.Sprintf("%s:%d", c, meta.Counts[c.String()]))
	}
	return strings.Join(parts, " ")
}

// loadDiff compares the latest run for url with the previous one, or with
// the run withID when it is non-zero.
func loadDiff(ctx context.Context, db *database.ScrapeDB, url string, withID int64) (*model.ResultDiff, error) {
	if withID == 0 {
		results, err := db.GetLatestResults(ctx, url, 2)
		if err != nil {
			return nil, err
		}
		if len(results) < 2 {
			return nil, fmt.Errorf("at least 2 stored runs are required for comparison (found %d)", len(results))
		}
		return model.DiffResults(results[1], results[0]), nil
	}

	older, err := db.GetResultByID(ctx, withID)
	if err != nil {
		return nil, err
	}
	if older == nil {
		return nil, fmt.Errorf("no stored run with id %d", withID)
	}
	if older.Target != url {
		return nil, fmt.Errorf("stored run %d is for %s, not %s", withID, older.Target, url)
	}

	latest, err := db.GetLatestResults(ctx, url, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("no stored runs found for %s", url)
	}
	return model.DiffResults(older, latest[0]), nil
}
