package model

import "strconv"

// Status is one of the nine canonical PEP statuses.
//
// Design decision: We use iota constants rather than the status strings
// themselves. The tally is then a fixed-size array indexed by Status, and
// the report order follows the declaration order below.
type Status int

// The declaration order is the order in which statuses are reported.
const (
	StatusAccepted Status = iota
	StatusActive
	StatusDeferred
	StatusDraft
	StatusFinal
	StatusProvisional
	StatusRejected
	StatusSuperseded
	StatusWithdrawn
)

// statusNames holds the exact text a PEP page shows for each status.
var statusNames = [...]string{
	StatusAccepted:    "Accepted",
	StatusActive:      "Active",
	StatusDeferred:    "Deferred",
	StatusDraft:       "Draft",
	StatusFinal:       "Final",
	StatusProvisional: "Provisional",
	StatusRejected:    "Rejected",
	StatusSuperseded:  "Superseded",
	StatusWithdrawn:   "Withdrawn",
}

// String returns the status text as rendered on PEP pages.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// Statuses returns all nine statuses in declaration order.
func Statuses() []Status {
	out := make([]Status, len(statusNames))
	for i := range statusNames {
		out[i] = Status(i)
	}
	return out
}

// ParseStatus matches text exactly against the known status names.
// The comparison is case-sensitive and does not trim whitespace.
func ParseStatus(text string) (Status, bool) {
	for i, name := range statusNames {
		if name == text {
			return Status(i), true
		}
	}
	return 0, false
}
