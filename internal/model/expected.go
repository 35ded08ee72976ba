package model

import "slices"

// ExpectedStatus maps a one-character table status code to the full status
// names a PEP page may legitimately show for it.
// The empty code stands for rows that show no explicit status letter.
//
// Design decision: We key by the letter as text rather than by Status.
// The index letter is not a Status (A covers both Active and Accepted), and
// a map of strings can be overridden from the YAML config as is.
type ExpectedStatus map[string][]string

// DefaultExpectedStatus returns the mapping used by the PEP index.
func DefaultExpectedStatus() ExpectedStatus {
	return ExpectedStatus{
		"A": {"Active", "Accepted"},
		"D": {"Deferred"},
		"F": {"Final"},
		"P": {"Provisional"},
		"R": {"Rejected"},
		"S": {"Superseded"},
		"W": {"Withdrawn"},
		"":  {"Draft", "Active"},
	}
}

// Expected returns the allowed statuses for code.
// A code missing from the map yields an empty set rather than an error.
func (e ExpectedStatus) Expected(code string) []string {
	return e[code]
}

// Allows reports whether status is in the expected set for code.
func (e ExpectedStatus) Allows(code, status string) bool {
	return slices.Contains(e[code], status)
}

// Clone returns a deep copy so callers can override entries safely.
func (e ExpectedStatus) Clone() ExpectedStatus {
	out := make(ExpectedStatus, len(e))
	for k, v := range e {
		out[k] = slices.Clone(v)
	}
	return out
}

// Merge returns a copy of e with the entries of override replacing its own.
func (e ExpectedStatus) Merge(override ExpectedStatus) ExpectedStatus {
	out := e.Clone()
	for k, v := range override {
		out[k] = slices.Clone(v)
	}
	return out
}
