package model

import (
	"fmt"
	"strings"
)

// Mismatch records a PEP whose own page shows a status that the index
// table's status code does not allow.
type Mismatch struct {
	// URL is the absolute PEP page URL.
	URL string `json:"url"`

	// PageStatus is the authoritative status text read from the PEP page.
	PageStatus string `json:"page_status"`

	// Expected is the status set allowed by the table status code.
	Expected []string `json:"expected"`
}

// String renders the mismatch as a multi-line note.
func (m Mismatch) String() string {
	return fmt.Sprintf("%s\nStatus on page: %s\nExpected statuses: [%s]",
		m.URL, m.PageStatus, strings.Join(m.Expected, ", "))
}
