// Package log builds the slog logger used by pydocscan.
//
// Console output goes through a tint handler on stderr so that levels are
// colorized in a terminal. When a log file is configured, every record at
// debug level and above is also written to that file as plain text.
// Both destinations are combined by FanoutHandler.
//
// # Usage
//
//	logger := log.NewLogger(log.Options{
//	    Console: os.Stderr,
//	    Verbose: verbose,
//	    File:    logFile, // may be nil
//	})
//	slog.SetDefault(logger)
package log
