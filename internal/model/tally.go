package model

// TallyEntry is one (status, count) pair of a StatusTally.
type TallyEntry struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// StatusTally counts PEP pages per status.
// It is pre-seeded with all nine statuses at zero and never grows new keys.
// A StatusTally is not safe for concurrent use.
type StatusTally struct {
	counts [len(statusNames)]int
}

// NewStatusTally returns a tally with every status at zero.
func NewStatusTally() *StatusTally {
	return &StatusTally{}
}

// Increment adds one to the status named by text.
// It returns false and leaves the tally untouched when text is not a known status.
func (t *StatusTally) Increment(text string) bool {
	s, ok := ParseStatus(text)
	if !ok {
		return false
	}
	t.counts[s]++
	return true
}

// Count returns the count for a single status.
func (t *StatusTally) Count(s Status) int {
	if s < 0 || int(s) >= len(t.counts) {
		return 0
	}
	return t.counts[s]
}

// Entries returns the counts in status declaration order.
func (t *StatusTally) Entries() []TallyEntry {
	entries := make([]TallyEntry, len(t.counts))
	for i, c := range t.counts {
		entries[i] = TallyEntry{Status: Status(i), Count: c}
	}
	return entries
}

// Sum returns the total number of counted pages.
func (t *StatusTally) Sum() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Distinct returns the number of statuses tracked by the tally.
// The tally is pre-seeded, so this is always nine.
func (t *StatusTally) Distinct() int {
	return len(t.counts)
}
