package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/pydocscan/internal/model"
)

// Fetcher is the HTTP client used by the extractors.
// Response returns nil when the page could not be loaded; the failure has
// already been logged.
type Fetcher interface {
	Response(ctx context.Context, url string) *model.Page
	Download(ctx context.Context, url string) ([]byte, error)
}

// Scraper runs the extractors against the Python documentation and PEP sites.
//
// Each extractor is a method returning a result table, or a file path for
// Download. Fetch failures of individual pages are logged and skipped,
// while a page whose markup no longer matches the expected structure stops
// the run with an error wrapping ErrPageStructure.
//
// Design decision: We keep the extractors as methods on one Scraper rather
// than as separate types behind an interface. The four modes share the
// fetcher, logger and progress reporting, and Run dispatches over the
// closed set of modes with an exhaustive switch.
type Scraper struct {
	// fetcher serves every page and the archive download.
	fetcher Fetcher

	// docsURL is the documentation root; whats-new and download pages are
	// resolved against it.
	docsURL string

	// pepsURL is the PEP index page.
	pepsURL string

	// downloadsDir receives the documentation archive.
	downloadsDir string

	// expected maps PEP index letters to the page statuses they allow.
	expected model.ExpectedStatus

	logger *slog.Logger

	// progress reports advancement through sub-page loops.
	progress Progress

	// mismatches receives the PEP mismatch count of a pep run.
	mismatches MismatchRecorder
}

// MismatchRecorder receives the number of PEP status mismatches found by
// a pep run. It is satisfied by *metrics.Metrics.
type MismatchRecorder interface {
	SetMismatches(n int)
}

type noMismatchRecorder struct{}

func (noMismatchRecorder) SetMismatches(int) {}

// Option configures a Scraper.
type Option func(*Scraper)

// WithDocsURL sets the documentation root URL.
func WithDocsURL(u string) Option {
	return func(s *Scraper) {
		s.docsURL = u
	}
}

// WithPEPsURL sets the PEP index URL.
func WithPEPsURL(u string) Option {
	return func(s *Scraper) {
		s.pepsURL = u
	}
}

// WithDownloadsDir sets the directory that receives downloaded archives.
func WithDownloadsDir(dir string) Option {
	return func(s *Scraper) {
		s.downloadsDir = dir
	}
}

// WithExpectedStatus sets the table-code to page-status expectations used in pep mode.
func WithExpectedStatus(e model.ExpectedStatus) Option {
	return func(s *Scraper) {
		s.expected = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = l
	}
}

// WithMismatchRecorder sets the receiver of the PEP mismatch count.
func WithMismatchRecorder(r MismatchRecorder) Option {
	return func(s *Scraper) {
		if r != nil {
			s.mismatches = r
		}
	}
}

// WithProgressOutput reports progress over sub-page loops to w.
// A nil writer disables progress output.
func WithProgressOutput(w io.Writer) Option {
	return func(s *Scraper) {
		if w == nil {
			s.progress = noProgress{}
			return
		}
		s.progress = NewTerminalProgress(w)
	}
}

// WithProgress reports progress over sub-page loops to p.
// A nil Progress disables progress output.
func WithProgress(p Progress) Option {
	return func(s *Scraper) {
		if p == nil {
			s.progress = noProgress{}
			return
		}
		s.progress = p
	}
}

// New creates a Scraper using fetcher for all HTTP traffic.
func New(fetcher Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:      fetcher,
		docsURL:      "https://docs.python.org/3/",
		pepsURL:      "https://peps.python.org/",
		downloadsDir: "downloads",
		expected:     model.DefaultExpectedStatus(),
		logger:       slog.Default(),
		progress:     noProgress{},
		mismatches:   noMismatchRecorder{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes the extractor for mode.
// A nil table with a nil error means there is nothing to emit: either the
// entry page could not be fetched or the mode produces a file instead.
func (s *Scraper) Run(ctx context.Context, mode model.Mode) (*model.Table, error) {
	switch mode {
	case model.ModeWhatsNew:
		return s.WhatsNew(ctx)
	case model.ModeLatestVersions:
		return s.LatestVersions(ctx)
	case model.ModeDownload:
		_, err := s.Download(ctx)
		return nil, err
	case model.ModePEP:
		return s.PEP(ctx)
	default:
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownMode, int(mode))
	}
}
