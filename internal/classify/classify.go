// Package classify evaluates patch aging against policy thresholds.
package classify

import "time"

// Severity is the three-level patch freshness class.
type Severity string

const (
	OK       Severity = "OK"
	Warning  Severity = "Warning"
	Critical Severity = "Critical"
)

// Result is the classification of one host's patch aging.
type Result struct {
	AgingDays int
	Severity  Severity
	// Known is false when the host has no dated update record; AgingDays
	// and Severity carry no meaning then and are surfaced as "Unknown".
	Known bool
}

const hoursPerDay = 24

// Classify computes the whole days elapsed between lastUpdate and now and
// classifies them against the thresholds. Ties at a threshold land in the
// more severe class. A zero lastUpdate means no update record exists and
// yields an unknown result. Pure: only the delta between the two times
// matters, and there are no side effects.
func Classify(lastUpdate, now time.Time, warningDays, criticalDays int) Result {
	if lastUpdate.IsZero() {
		return Result{}
	}
	aging := int(now.Sub(lastUpdate).Hours()) / hoursPerDay
	if aging < 0 {
		aging = 0
	}
	result := Result{AgingDays: aging, Known: true}
	switch {
	case aging >= criticalDays:
		result.Severity = Critical
	case aging >= warningDays:
		result.Severity = Warning
	default:
		result.Severity = OK
	}
	return result
}
