// Package validation derives the host's GxP validation state from a
// marker file: existence alone signals validation, and an optional first
// line of the form YYYY-MM-DD carries the validation date.
package validation

import (
	"log"
	"os"
	"strings"
	"time"
)

// Status is the validation state of the host.
type Status string

const (
	Validated    Status = "Validated"
	NotValidated Status = "Not Validated"
	Unknown      Status = "Unknown"
)

// State is the outcome of reading the marker.
type State struct {
	Status      Status
	ValidatedOn time.Time
	// HasDate is true only when the marker's first line parsed as a date.
	HasDate bool
}

const markerDateLayout = "2006-01-02"

// Reader reads the validation marker file at a fixed path.
type Reader struct {
	path string
}

// NewReader returns a reader for the marker at path.
func NewReader(path string) *Reader { return &Reader{path: path} }

// Read returns the current validation state. A missing marker means the
// host was never validated; a marker that exists but cannot be read is
// reported as Unknown, never as NotValidated.
func (r *Reader) Read() State {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{Status: NotValidated}
		}
		log.Printf("[WARN] Validation marker unreadable: %v", err)
		return State{Status: Unknown}
	}

	firstLine, _, _ := strings.Cut(string(data), "\n")
	firstLine = strings.TrimSpace(firstLine)
	if t, err := time.Parse(markerDateLayout, firstLine); err == nil {
		return State{Status: Validated, ValidatedOn: t, HasDate: true}
	}
	return State{Status: Validated}
}

// String renders the state the way the panel displays it.
func (s State) String() string {
	if s.Status == Validated && s.HasDate {
		return string(Validated) + " (" + s.ValidatedOn.Format(markerDateLayout) + ")"
	}
	return string(s.Status)
}
