package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/pydocscan/internal/config"
	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/output"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pydocscan.
//
// The mode is a positional argument rather than a subcommand, so that
// init, history and version stay separate from the scraping modes.
// Errors are printed once by Execute; cobra's own error and usage output
// is silenced.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pydocscan <mode>",
		Short: "Scrape Python documentation and PEP status tables",
		Long: `pydocscan collects information from docs.python.org and peps.python.org.

Modes:
  whats-new         "What's New" article link, title and editor/author per release
  latest-versions   documentation versions and their status
  download          download the A4 PDF documentation archive
  pep               compare PEP index statuses with each PEP page and tally them

HTTP responses are cached in a local SQLite database. Use -c to clear it.

Examples:
  # Print the version table
  pydocscan latest-versions

  # Save the PEP tally as CSV in the results directory
  pydocscan pep -o file

  # Refetch every page
  pydocscan whats-new -c`,
		Version:       getVersion(),
		Args:          cobra.MatchAll(cobra.ExactArgs(1), validMode),
		ValidArgs:     model.ModeNames(),
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("config", "",
		"Configuration file path (default: .pydocscan in current or home directory)")
	cmd.PersistentFlags().String("cache-dir", "",
		"Directory of the response cache and run history (default: XDG cache dir)")

	// Run flags override the configuration file only when set.
	cmd.Flags().BoolP("clear-cache", "c", false, "Clear the HTTP response cache before the run")
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"Output format: "+strings.Join(output.FormatNames(), ", "))
	cmd.Flags().String("results-dir", "", "Directory for CSV files written with -o file")
	cmd.Flags().String("downloads-dir", "", "Directory for the documentation archive")
	cmd.Flags().Duration("timeout", config.DefaultTimeout, "Timeout for each HTTP request")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached responses stay valid (0 keeps them until cleared)")
	cmd.Flags().String("log-file", "", "Also write debug logs to this file")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics to this file after the run (textfile collector format)")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// validMode rejects mode names outside the closed mode set.
func validMode(_ *cobra.Command, args []string) error {
	_, err := model.ParseMode(args[0])
	return err
}

// Execute runs the root command and exits with status 1 on any error.
// Runs without results still exit with status 0.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
