package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/parser"
	"github.com/nao1215/pydocscan/internal/pep"
)

// pepSections are the ids of the index sections whose rows are inspected, in order.
var pepSections = []string{
	"index-by-category",
	"numerical-index",
	"reserved-pep-numbers",
}

// PEP counts PEPs per status as shown on each PEP's own page and logs
// rows whose index status letter disagrees with the page.
//
// The index page is fetched once. Each of the pepSections present on it is
// walked row by row, and every row linking to a PEP costs one more request.
// Sections missing from the index are skipped. The returned table has one
// row per known status followed by the Total row. A nil table with a nil
// error means the index could not be fetched.
//
// Mismatches are reported as a single error-level log record after all
// sections have been walked, and their count is handed to the mismatch
// recorder.
func (s *Scraper) PEP(ctx context.Context) (*model.Table, error) {
	rec := pep.NewReconciler(s.expected)

	page := s.fetcher.Response(ctx, s.pepsURL)
	if page == nil {
		return nil, nil
	}
	doc, err := parser.ParsePage(page)
	if err != nil {
		return nil, err
	}

	// Sections are walked in index order so that mismatches are reported
	// in the order a reader meets them.
	for _, id := range pepSections {
		section, ok := parser.FindOptional(doc.Selection, "section#"+id)
		if !ok {
			s.logger.Debug("PEP index section not found", "section", id)
			continue
		}
		if err := s.pepSection(ctx, doc, rec, id, section); err != nil {
			return nil, err
		}
	}

	s.mismatches.SetMismatches(len(rec.Mismatches()))
	if report, ok := rec.MismatchReport(); ok {
		s.logger.Error(report)
	}

	return rec.Table(), nil
}

// pepSection walks every table row of one index section. It stops early
// only when ctx is done.
func (s *Scraper) pepSection(ctx context.Context, doc *parser.Document, rec *pep.Reconciler, id string, section *goquery.Selection) error {
	rows := section.Find("tr")

	s.progress.Begin(id, rows.Length())
	defer s.progress.End()

	for i := range rows.Length() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.pepRow(ctx, doc, rec, rows.Eq(i))
		s.progress.Advance()
	}
	return nil
}

// pepRow reconciles one index row. Rows without a PEP link are ignored;
// rows whose PEP page cannot be read are logged and skipped.
func (s *Scraper) pepRow(ctx context.Context, doc *parser.Document, rec *pep.Reconciler, row *goquery.Selection) {
	// Header rows have no td and keep an empty code.
	code := ""
	if td, ok := parser.FindOptional(row, "td"); ok {
		code = pep.TableStatusCode(parser.Text(td))
	}

	link, ok := parser.FindOptional(row, "a.pep.reference.internal")
	if !ok {
		return
	}
	pepURL, err := doc.Resolve(parser.Href(link))
	if err != nil {
		s.logger.Error("skipping PEP with invalid link", "href", parser.Href(link), "error", err)
		return
	}

	page := s.fetcher.Response(ctx, pepURL)
	if page == nil {
		return
	}
	pepDoc, err := parser.ParsePage(page)
	if err != nil {
		s.logger.Error("skipping unparsable PEP page", "url", pepURL, "error", err)
		return
	}
	abbr, ok := parser.FindOptional(pepDoc.Selection, "abbr")
	if !ok {
		s.logger.Error("status not found on PEP page", "url", pepURL)
		return
	}

	// The first abbr on a PEP page is the status field of the preamble.
	status := parser.Text(abbr)
	if err := rec.Record(pepURL, code, status); err != nil {
		s.logger.Error("nonexistent status", "status", status, "url", pepURL, "error", err)
	}
}
