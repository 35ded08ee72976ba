package output

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nao1215/pydocscan/internal/model"
)

// PrettyWriter prints a table with rounded borders.
// The output is meant for a terminal; cells are not escaped or wrapped.
type PrettyWriter struct {
	baseWriter
}

// NewPrettyWriter creates a PrettyWriter that outputs to the given writer.
func NewPrettyWriter(output io.Writer) *PrettyWriter {
	return &PrettyWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the table.
func (w *PrettyWriter) Write(t *model.Table) error {
	if t == nil {
		return ErrNilTable
	}
	_, err := io.WriteString(w.output, renderPretty(t)+"\n")
	return err
}

// renderPretty renders t as a go-pretty table string.
func renderPretty(t *model.Table) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// Header labels are printed as scraped.
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(toRow(t.Header()))
	for _, r := range t.Data() {
		tw.AppendRow(toRow(r))
	}
	return tw.Render()
}

func toRow(r model.Row) table.Row {
	row := make(table.Row, len(r))
	for i, cell := range r {
		row[i] = cell
	}
	return row
}
