package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/pydocscan/internal/config"
	"github.com/nao1215/pydocscan/internal/database"
	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/output"
	"github.com/spf13/cobra"
)

// historyHeader is the header of the run listing.
var historyHeader = []string{"ID", "Mode", "Created at"}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [mode]",
		Short: "List or show stored results of previous runs",
		Long: `History lists the result tables stored by previous runs, newest first.

Examples:
  # List every stored run
  pydocscan history

  # List stored PEP runs
  pydocscan history pep

  # Show run 3 as JSON
  pydocscan history --show 3 -o json`,
		Args: cobra.MatchAll(cobra.MaximumNArgs(1), func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			return validMode(cmd, args)
		}),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("show", 0, "Render the stored table of the run with this ID")
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"Output format for --show")

	return cmd
}

// runHistoryCmd executes the history command.
//
// Without --show it lists stored runs as a pretty table regardless of the
// output format. With --show the stored table goes through the same
// dispatcher as a live run, so every output format is available.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	show, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.CacheDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer db.Close()

	if show > 0 {
		return showRun(cmd.Context(), db, show, output.Options{
			Format:     format,
			Stdout:     cmd.OutOrStdout(),
			ResultsDir: cfg.ResultsDir,
		})
	}

	var mode string
	if len(args) == 1 {
		mode = args[0]
	}
	return listRuns(cmd.Context(), db, mode, cmd.OutOrStdout())
}

// showRun renders one stored run through the output dispatcher.
func showRun(ctx context.Context, db *database.CacheDB, id int64, opts output.Options) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	// File and Markdown output depend on the mode of the stored run.
	opts.Mode = run.Mode
	return output.Write(ctx, run.Table, opts)
}

// listRuns prints the stored runs of mode, or of every mode when it is empty.
func listRuns(ctx context.Context, db *database.CacheDB, mode string, w io.Writer) error {
	runs, err := db.ListRuns(ctx, mode)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs stored")
		return err
	}

	table := model.NewTable(historyHeader...)
	for _, r := range runs {
		if err := table.Append(
			strconv.FormatInt(r.ID, 10),
			r.Mode.String(),
			// Stored in UTC, shown in local time.
			r.CreatedAt.Local().Format(time.DateTime),
		); err != nil {
			return err
		}
	}
	return output.NewPrettyWriter(w).Write(table)
}
