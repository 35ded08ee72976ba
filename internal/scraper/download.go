package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pydocscan/internal/parser"
)

// archivePattern matches the link to the A4 PDF documentation archive.
// The download table lists several formats; only the zipped A4 PDF is saved.
var archivePattern = regexp.MustCompile(`.+pdf-a4\.zip$`)

// Download saves the A4 PDF documentation archive into the downloads
// directory and returns the path of the written file.
// An empty path with a nil error means the download page could not be fetched.
//
// The archive link is looked up in the first docutils table of the download
// page and resolved against that page. The archive itself is fetched with
// Fetcher.Download, so it is never stored in the response cache. An existing
// file with the same name is overwritten.
func (s *Scraper) Download(ctx context.Context) (string, error) {
	downloadsURL, err := parser.Resolve(s.docsURL, "download.html")
	if err != nil {
		return "", err
	}

	page := s.fetcher.Response(ctx, downloadsURL)
	if page == nil {
		return "", nil
	}
	doc, err := parser.ParsePage(page)
	if err != nil {
		return "", err
	}

	table, err := parser.FindTag(doc.Selection, "table.docutils")
	if err != nil {
		return "", structureError(downloadsURL, err)
	}

	// First matching link wins.
	var href string
	table.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if h := parser.Href(a); archivePattern.MatchString(h) {
			href = h
			return false
		}
		return true
	})
	if href == "" {
		return "", fmt.Errorf("%w: %s", ErrArchiveLinkNotFound, downloadsURL)
	}

	archiveURL, err := doc.Resolve(href)
	if err != nil {
		return "", err
	}
	filename, err := archiveFilename(archiveURL)
	if err != nil {
		return "", err
	}

	// Create the directory before the request so that a bad path fails fast.
	if err := os.MkdirAll(s.downloadsDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	data, err := s.fetcher.Download(ctx, archiveURL)
	if err != nil {
		return "", err
	}

	archivePath := filepath.Join(s.downloadsDir, filename)
	if err := os.WriteFile(archivePath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to save archive: %w", err)
	}

	s.logger.Info("archive downloaded and saved", "path", archivePath)
	return archivePath, nil
}

// archiveFilename returns the last path segment of rawURL.
func archiveFilename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid archive URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("archive URL %q has no file name", rawURL)
	}
	return name, nil
}
