package pep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/pydocscan/internal/model"
)

// ErrUnknownStatus is returned by Record when the page shows a status
// outside the nine known statuses. The tally is left unchanged.
var ErrUnknownStatus = errors.New("unknown PEP status")

// Table header labels.
const (
	HeaderCategory = "Category"
	HeaderStatus   = "Status"
	TotalLabel     = "Total"
)

// Reconciler accumulates PEP status observations.
//
// Each call to Record updates the tally and, when the page status is not
// expected for the index letter, appends a Mismatch. The zero value is not
// usable; create one with NewReconciler. A Reconciler is not safe for
// concurrent use.
//
// Design decision: We keep reconciliation separate from scraping rather
// than folding it into the pep extractor. The extractor only turns HTML into
// (url, code, status) triples, so the counting and mismatch rules can be
// tested without any page fixtures.
type Reconciler struct {
	// expected maps a table letter to the page statuses it may show.
	expected model.ExpectedStatus

	// tally counts pages per known status.
	tally *model.StatusTally

	// mismatches holds rejected observations in the order they were seen.
	mismatches []model.Mismatch
}

// NewReconciler creates a Reconciler using expected to check table codes.
// A nil map falls back to model.DefaultExpectedStatus.
func NewReconciler(expected model.ExpectedStatus) *Reconciler {
	if expected == nil {
		expected = model.DefaultExpectedStatus()
	}
	return &Reconciler{
		expected: expected.Clone(),
		tally:    model.NewStatusTally(),
	}
}

// TableStatusCode returns the status letter of an index row given the text
// of its first cell. The cell holds the type letter followed by the status
// letter ("SF", "IA"); a single letter means no status letter is shown.
// The text is not trimmed.
func TableStatusCode(cell string) string {
	runes := []rune(cell)
	if len(runes) > 1 {
		return string(runes[len(runes)-1])
	}
	return ""
}

// Record registers the status found on the page at url for a row whose
// table status letter is code.
// The mismatch check runs even when the status is unknown; in that case
// the returned error wraps ErrUnknownStatus.
func (r *Reconciler) Record(url, code, pageStatus string) error {
	var err error
	if !r.tally.Increment(pageStatus) {
		err = fmt.Errorf("%w: %q (%s)", ErrUnknownStatus, pageStatus, url)
	}

	if !r.expected.Allows(code, pageStatus) {
		r.mismatches = append(r.mismatches, model.Mismatch{
			URL:        url,
			PageStatus: pageStatus,
			Expected:   r.expected.Expected(code),
		})
	}

	return err
}

// Tally returns the per-status counts.
func (r *Reconciler) Tally() *model.StatusTally {
	return r.tally
}

// Mismatches returns the recorded mismatches in observation order.
func (r *Reconciler) Mismatches() []model.Mismatch {
	out := make([]model.Mismatch, len(r.mismatches))
	copy(out, r.mismatches)
	return out
}

// MismatchReport renders every mismatch as one message.
// The second return value is false when there is nothing to report.
func (r *Reconciler) MismatchReport() (string, bool) {
	if len(r.mismatches) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("Mismatched statuses:")
	for _, m := range r.mismatches {
		b.WriteString("\n")
		b.WriteString(m.String())
	}
	return b.String(), true
}

// Table returns the tally as a result table: one row per status in
// declaration order followed by a Total row.
// The Total row holds the number of tracked statuses, which is always nine,
// not the number of counted pages.
func (r *Reconciler) Table() *model.Table {
	table := model.NewTable(HeaderCategory, HeaderStatus)
	for _, e := range r.tally.Entries() {
		_ = table.Append(e.Status.String(), strconv.Itoa(e.Count))
	}
	_ = table.Append(TotalLabel, strconv.Itoa(r.tally.Distinct()))
	return table
}
