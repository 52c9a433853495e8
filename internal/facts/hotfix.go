package facts

import (
	"strings"
	"time"
)

// Layouts wmic emits for the InstalledOn column, depending on locale and
// Windows version.
var installedOnLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1/2/2006 15:04:05",
}

// latestInstalledOn parses `wmic qfe get InstalledOn` output and returns
// the most recent install date. Rows without a parseable date are
// skipped; ErrNoUpdateRecords is returned when none remain.
func latestInstalledOn(output string) (time.Time, error) {
	var latest time.Time
	for _, line := range strings.Split(output, "\n") {
		field := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if field == "" || strings.EqualFold(field, "InstalledOn") {
			continue
		}
		t, ok := parseInstalledOn(field)
		if !ok {
			continue
		}
		if t.After(latest) {
			latest = t
		}
	}
	if latest.IsZero() {
		return time.Time{}, ErrNoUpdateRecords
	}
	return latest, nil
}

func parseInstalledOn(field string) (time.Time, bool) {
	for _, layout := range installedOnLayouts {
		if t, err := time.Parse(layout, field); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
