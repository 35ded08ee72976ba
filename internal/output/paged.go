package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/nao1215/pydocscan/internal/model"
)

// PagedWriter shows a table in a scrollable viewport.
// When the output is not a terminal the rendered table is written as-is.
//
// Design decision: We page the same text the pretty writer prints rather
// than building an interactive table widget. The viewport only scrolls, so
// the paged and piped forms of a result look the same.
type PagedWriter struct {
	baseWriter

	// ctx stops the pager when the run is interrupted.
	ctx context.Context

	// mode is shown in the pager title.
	mode model.Mode
}

// NewPagedWriter creates a PagedWriter that outputs to the given writer.
func NewPagedWriter(ctx context.Context, output io.Writer, mode model.Mode) *PagedWriter {
	return &PagedWriter{
		baseWriter: newBaseWriter(output),
		ctx:        ctx,
		mode:       mode,
	}
}

// Write renders the table and starts the pager.
func (w *PagedWriter) Write(t *model.Table) error {
	if t == nil {
		return ErrNilTable
	}

	content := renderPretty(t)
	if !isTerminal(w.output) {
		_, err := io.WriteString(w.output, content+"\n")
		return err
	}

	// The alternate screen leaves the scrollback untouched when the pager quits.
	p := tea.NewProgram(
		newPager(w.mode.String(), content),
		tea.WithAltScreen(),
		tea.WithOutput(w.output),
		tea.WithContext(w.ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("pager failed: %w", err)
	}
	return nil
}

// isTerminal reports whether w is a terminal, including Cygwin terminals.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	pagerTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD43B")).
			Background(lipgloss.Color("#306998")).
			Padding(0, 1)

	pagerFooterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))
)

// pager is the bubbletea model of the paged output.
type pager struct {
	title   string
	content string

	viewport viewport.Model

	// ready is false until the first WindowSizeMsg sizes the viewport.
	ready bool
}

func newPager(title, content string) pager {
	return pager{title: title, content: content}
}

func (p pager) Init() tea.Cmd {
	return nil
}

// Update handles quit keys and terminal resizes. Everything else is
// passed to the viewport for scrolling.
func (p pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		}
	case tea.WindowSizeMsg:
		// The viewport gets what is left after the title and footer.
		chrome := lipgloss.Height(p.headerView()) + lipgloss.Height(p.footerView())
		height := max(1, msg.Height-chrome)
		if !p.ready {
			p.viewport = viewport.New(msg.Width, height)
			p.viewport.SetContent(p.content)
			p.ready = true
		} else {
			p.viewport.Width = msg.Width
			p.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p pager) View() string {
	if !p.ready {
		return "loading..."
	}
	return strings.Join([]string{p.headerView(), p.viewport.View(), p.footerView()}, "\n")
}

func (p pager) headerView() string {
	return pagerTitleStyle.Render("pydocscan: " + p.title)
}

func (p pager) footerView() string {
	percent := 100.0
	if p.ready {
		percent = p.viewport.ScrollPercent() * 100
	}
	return pagerFooterStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll  q quit", percent))
}
