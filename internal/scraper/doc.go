// Package scraper implements the four pydocscan extractors.
//
// Each extractor fetches its entry page, locates the elements it needs and
// builds a result table (or, in download mode, a file on disk). The shared
// failure rules are:
//   - a failed top-level fetch yields no result and no error
//   - a failed sub-page fetch skips that sub-page
//   - a missing required element returns an error wrapping ErrPageStructure
package scraper
