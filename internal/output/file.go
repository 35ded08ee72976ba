package output

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/pydocscan/internal/model"
)

// FileTimeLayout is the timestamp layout used in result file names.
const FileTimeLayout = "2006-01-02_15-04-05"

// FileWriter writes a table as CSV into a results directory.
//
// Each Write creates a new file named after the mode and the local time, so
// earlier results are kept. Two writes within the same second for the same
// mode overwrite each other.
type FileWriter struct {
	// dir is created on the first Write.
	dir string

	// mode is the first part of the file name.
	mode model.Mode

	logger *slog.Logger

	// now is replaced in tests to get stable file names.
	now func() time.Time

	// lastPath is the path of the most recently written file.
	lastPath string
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithFileLogger sets the logger that receives the saved file path.
func WithFileLogger(l *slog.Logger) FileWriterOption {
	return func(w *FileWriter) {
		w.logger = l
	}
}

// WithClock sets the clock used for file names.
func WithClock(now func() time.Time) FileWriterOption {
	return func(w *FileWriter) {
		w.now = now
	}
}

// NewFileWriter creates a FileWriter for dir. Files are named
// <mode>_<timestamp>.csv.
func NewFileWriter(dir string, mode model.Mode, opts ...FileWriterOption) *FileWriter {
	w := &FileWriter{
		dir:    dir,
		mode:   mode,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// FileName returns the file name for a table written at t.
func FileName(mode model.Mode, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", mode, t.Format(FileTimeLayout))
}

// Write creates the results directory if needed and writes the table,
// header row first.
func (w *FileWriter) Write(t *model.Table) error {
	if t == nil {
		return ErrNilTable
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	path := filepath.Join(w.dir, FileName(w.mode, w.now()))
	f, err := os.Create(path) //nolint:gosec // path is built from the configured results directory
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}

	// The header row goes first, as Rows includes it.
	cw := csv.NewWriter(f)
	for _, r := range t.Rows() {
		if err := cw.Write(r); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write results file: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write results file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close results file: %w", err)
	}

	w.lastPath = path
	w.logger.Info("results file saved", "path", path)
	return nil
}

// Path returns the path of the last written file, or the empty string.
func (w *FileWriter) Path() string {
	return w.lastPath
}
