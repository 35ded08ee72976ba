package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nao1215/pydocscan/internal/model"
)

// ErrNilTable is returned when a writer is asked to emit a nil table.
var ErrNilTable = errors.New("nil table")

// Writer emits a result table to its destination.
//
// Design decision: We give every format its own small Writer rather than
// one writer with a switch per call. Formats differ in what they need
// (a directory, a mode, a context), and each is constructed with exactly
// that. NewWriter is the only place that knows the full set.
type Writer interface {
	Write(table *model.Table) error
}

// baseWriter provides common functionality for table writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Options configures Write and NewWriter.
type Options struct {
	// Format selects the writer.
	Format Format

	// Mode names the run; it is used in file names and document titles.
	Mode model.Mode

	// Stdout receives pretty, paged, json and markdown output.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// ResultsDir receives CSV files in file format.
	ResultsDir string

	// Logger receives the path of written files. Defaults to slog.Default().
	Logger *slog.Logger

	// Now returns the time used in file names. Defaults to time.Now.
	Now func() time.Time
}

// withDefaults returns a copy of o with unset fields filled in.
func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NewWriter returns the Writer for opts.Format. ctx bounds the interactive pager.
func NewWriter(ctx context.Context, opts Options) (Writer, error) {
	opts = opts.withDefaults()

	// Keep in step with the Format constants.
	switch opts.Format {
	case FormatPretty:
		return NewPrettyWriter(opts.Stdout), nil
	case FormatFile:
		return NewFileWriter(opts.ResultsDir, opts.Mode,
			WithFileLogger(opts.Logger),
			WithClock(opts.Now),
		), nil
	case FormatPaged:
		return NewPagedWriter(ctx, opts.Stdout, opts.Mode), nil
	case FormatJSON:
		return NewJSONWriter(opts.Stdout, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(opts.Stdout, opts.Mode), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(opts.Format))
	}
}

// Write emits table in the format selected by opts.
func Write(ctx context.Context, table *model.Table, opts Options) error {
	w, err := NewWriter(ctx, opts)
	if err != nil {
		return err
	}
	return w.Write(table)
}
