package model

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned by ParseMode for names outside the closed mode set.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects which extractor a run executes.
// Exactly one mode is handled per process.
type Mode int

const (
	// ModeWhatsNew collects the "What's New" article for every Python release.
	ModeWhatsNew Mode = iota

	// ModeLatestVersions lists documentation versions and their status.
	ModeLatestVersions

	// ModeDownload downloads the A4 PDF documentation archive.
	ModeDownload

	// ModePEP reconciles PEP statuses between the index and each PEP page.
	ModePEP
)

// String returns the command-line name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeWhatsNew:
		return "whats-new"
	case ModeLatestVersions:
		return "latest-versions"
	case ModeDownload:
		return "download"
	case ModePEP:
		return "pep"
	default:
		return "unknown"
	}
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeWhatsNew, ModeLatestVersions, ModeDownload, ModePEP}
}

// ModeNames returns the command-line names of every mode in declaration order.
func ModeNames() []string {
	modes := Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}

// ParseMode converts a command-line name into a Mode.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes() {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid modes: %v)", ErrUnknownMode, name, ModeNames())
}
