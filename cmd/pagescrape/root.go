package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	applog "github.com/nao1215/pagescrape/internal/log"
)

// NewRootCmd creates the root command for pagescrape.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagescrape",
		Short: "Extract URLs, emails, and phone numbers from web pages",
		Long: `pagescrape fetches each given page once and reports four categories of
signals found in it:

  URLs                 http(s) URLs in the page text and image sources
  Emails               email addresses in the page text
  Phone Numbers        North American phone numbers in the page text
  IMG and A tag URLS   references in the href/src attributes of a and img tags

Results can be saved to a local history database and compared over time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting logger for cmd and installs it as the
// slog default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getVerboseFlag(cmd)

	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLogs = false
	}

	var logger *slog.Logger
	if jsonLogs {
		logger = applog.NewRedactingJSONLogger(cmd.ErrOrStderr(), verbose)
	} else {
		logger = applog.NewRedactingLogger(cmd.ErrOrStderr(), verbose)
	}
	slog.SetDefault(logger)
	return logger
}
