package scraper

import (
	"context"
	"strings"

	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/parser"
)

// WhatsNewHeader returns the header row of the whats-new table.
// Each call returns a new slice.
func WhatsNewHeader() []string {
	return []string{"Link", "Title", "Editor/Author"}
}

// WhatsNew collects the title and editor block of every "What's New" article.
//
// The article list is the top-level toctree of the whats-new index. Each
// article is fetched in list order and contributes one row of link, title
// and editors, with line breaks in the editor block folded into spaces.
// Articles that cannot be fetched are left out. A missing toctree or a
// missing heading on an article is a page structure error.
func (s *Scraper) WhatsNew(ctx context.Context) (*model.Table, error) {
	whatsNewURL, err := parser.Resolve(s.docsURL, "whatsnew/")
	if err != nil {
		return nil, err
	}

	page := s.fetcher.Response(ctx, whatsNewURL)
	if page == nil {
		return nil, nil
	}
	doc, err := parser.ParsePage(page)
	if err != nil {
		return nil, err
	}

	section, err := parser.FindTag(doc.Selection, "section#what-s-new-in-python")
	if err != nil {
		return nil, structureError(whatsNewURL, err)
	}
	wrapper, err := parser.FindTag(section, "div.toctree-wrapper")
	if err != nil {
		return nil, structureError(whatsNewURL, err)
	}
	// Only first-level entries are articles; nested ones are their sections.
	items := wrapper.Find("li.toctree-l1")

	table := model.NewTable(WhatsNewHeader()...)

	s.progress.Begin("whats-new", items.Length())
	defer s.progress.End()

	for i := range items.Length() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		anchor, err := parser.FindTag(items.Eq(i), "a")
		if err != nil {
			return nil, structureError(whatsNewURL, err)
		}
		link, err := doc.Resolve(parser.Href(anchor))
		if err != nil {
			s.logger.Warn("skipping unresolvable link", "href", parser.Href(anchor), "error", err)
			s.progress.Advance()
			continue
		}

		row, err := s.whatsNewRow(ctx, link)
		if err != nil {
			return nil, err
		}
		if row != nil {
			if err := table.Append(row...); err != nil {
				return nil, err
			}
		}
		s.progress.Advance()
	}

	return table, nil
}

// whatsNewRow reads one article. It returns a nil row when the article
// could not be fetched.
func (s *Scraper) whatsNewRow(ctx context.Context, link string) (model.Row, error) {
	page := s.fetcher.Response(ctx, link)
	if page == nil {
		return nil, nil
	}
	doc, err := parser.ParsePage(page)
	if err != nil {
		return nil, err
	}

	// The title is the first heading and the editors are the first
	// definition list below it.
	h1, err := parser.FindTag(doc.Selection, "h1")
	if err != nil {
		return nil, structureError(link, err)
	}
	dl, err := parser.FindTag(doc.Selection, "dl")
	if err != nil {
		return nil, structureError(link, err)
	}

	editors := strings.ReplaceAll(parser.Text(dl), "\n", " ")
	return model.Row{link, parser.Text(h1), editors}, nil
}
