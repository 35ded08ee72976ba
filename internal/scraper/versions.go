package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/parser"
)

// VersionsHeader returns the header row of the latest-versions table.
// Each call returns a new slice.
func VersionsHeader() []string {
	return []string{"Link", "Version", "Status"}
}

// versionPattern matches link texts such as "Python 3.13 (stable)".
// The major version is a single digit and the status may be empty.
var versionPattern = regexp.MustCompile(`Python (?P<version>\d\.\d+) \((?P<status>.*)\)`)

// allVersionsMarker identifies the sidebar list of documentation versions.
const allVersionsMarker = "All versions"

// LatestVersions lists every documentation version linked from the sidebar.
//
// The sidebar holds several lists; the version list is the first one whose
// text mentions "All versions". Every link in it becomes one row in page
// order, including the "All versions" link itself. Links keep their raw
// href. A sidebar without such a list is an error wrapping
// ErrVersionListNotFound.
func (s *Scraper) LatestVersions(ctx context.Context) (*model.Table, error) {
	page := s.fetcher.Response(ctx, s.docsURL)
	if page == nil {
		return nil, nil
	}
	doc, err := parser.ParsePage(page)
	if err != nil {
		return nil, err
	}

	sidebar, err := parser.FindTag(doc.Selection, "div.sphinxsidebarwrapper")
	if err != nil {
		return nil, structureError(s.docsURL, err)
	}

	var list *goquery.Selection
	sidebar.Find("ul").EachWithBreak(func(_ int, ul *goquery.Selection) bool {
		if strings.Contains(parser.Text(ul), allVersionsMarker) {
			list = ul
			return false
		}
		return true
	})
	if list == nil {
		return nil, fmt.Errorf("%w: %s", ErrVersionListNotFound, s.docsURL)
	}

	// Rows always have three cells, so Append only fails on a bug.
	table := model.NewTable(VersionsHeader()...)
	var appendErr error
	list.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		appendErr = table.Append(versionRow(parser.Href(a), parser.Text(a))...)
		return appendErr == nil
	})
	if appendErr != nil {
		return nil, appendErr
	}

	return table, nil
}

// versionRow splits a version link text into version and status.
// Texts that do not match, such as "All versions", keep the whole text as
// the version and an empty status.
func versionRow(href, text string) model.Row {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return model.Row{href, text, ""}
	}
	return model.Row{
		href,
		m[versionPattern.SubexpIndex("version")],
		m[versionPattern.SubexpIndex("status")],
	}
}
