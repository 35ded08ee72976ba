package scraper

import (
	"errors"
	"fmt"
)

// ErrPageStructure is returned when a page lacks an element the extractor
// requires. It usually means the site layout has changed.
var ErrPageStructure = errors.New("unexpected page structure")

var (
	// ErrVersionListNotFound is returned when the documentation sidebar has no
	// list mentioning "All versions".
	ErrVersionListNotFound = fmt.Errorf("%w: version list not found", ErrPageStructure)

	// ErrArchiveLinkNotFound is returned when the download table has no link
	// to the A4 PDF archive.
	ErrArchiveLinkNotFound = fmt.Errorf("%w: PDF A4 archive link not found", ErrPageStructure)
)

// structureError wraps a lookup failure on the page at url.
func structureError(url string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPageStructure, url, err)
}
