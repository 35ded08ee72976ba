package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nao1215/pydocscan/internal/config"
	applog "github.com/nao1215/pydocscan/internal/log"
	"github.com/spf13/cobra"
)

// loadConfig builds a Config from defaults, the configuration file and the
// flags set on the command line, in that order.
//
// Flags only override the file when the user set them. A flag left at its
// default never masks a value from the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// Otherwise the defaults are used when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(f)
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	// Flags missing from cmd (history has no --timeout) are skipped.
	flags := cmd.Flags()
	for _, err := range []error{
		setIfChanged(cmd, "cache-dir", flags.GetString, &cfg.CacheDir),
		setIfChanged(cmd, "output", flags.GetString, &cfg.Output),
		setIfChanged(cmd, "results-dir", flags.GetString, &cfg.ResultsDir),
		setIfChanged(cmd, "downloads-dir", flags.GetString, &cfg.DownloadsDir),
		setIfChanged(cmd, "timeout", flags.GetDuration, &cfg.Timeout),
		setIfChanged(cmd, "cache-ttl", flags.GetDuration, &cfg.CacheTTL),
		setIfChanged(cmd, "log-file", flags.GetString, &cfg.LogFile),
		setIfChanged(cmd, "metrics-file", flags.GetString, &cfg.MetricsFile),
		setIfChanged(cmd, "clear-cache", flags.GetBool, &cfg.ClearCache),
	} {
		if err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// setIfChanged copies the value of the named flag into dst when the flag
// exists on cmd and was set by the user.
func setIfChanged[T any](cmd *cobra.Command, name string, get func(string) (T, error), dst *T) error {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
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

// setupLogger creates the console logger and, when configured, opens the
// log file. The returned function closes the log file.
func setupLogger(cfg *config.Config, console io.Writer, color bool) (*slog.Logger, func(), error) {
	opts := applog.Options{
		Console: console,
		Verbose: cfg.Verbose,
		NoColor: !color,
	}

	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := applog.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		opts.File = f
		closeFn = func() { _ = f.Close() }
	}

	return applog.NewLogger(opts), closeFn, nil
}

// isTerminal reports whether w is an interactive terminal. It decides
// colored logs and progress bars.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
