package output

import (
	"io"

	"github.com/nao1215/markdown"
	"github.com/nao1215/pydocscan/internal/model"
)

// MarkdownWriter prints a table as a Markdown document.
// The document is built in memory and written once by Build.
type MarkdownWriter struct {
	baseWriter
	mode model.Mode
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, mode model.Mode) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		mode:       mode,
	}
}

// Write outputs an H1 naming the mode followed by the table.
func (w *MarkdownWriter) Write(t *model.Table) error {
	if t == nil {
		return ErrNilTable
	}

	rows := make([][]string, 0, t.Len())
	for _, r := range t.Data() {
		rows = append(rows, []string(r))
	}

	md := markdown.NewMarkdown(w.output)
	md.H1("pydocscan: " + w.mode.String())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string(t.Header()),
		Rows:   rows,
	})
	return md.Build()
}
