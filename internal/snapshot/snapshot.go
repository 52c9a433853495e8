// Package snapshot assembles one consistent view of host state per
// refresh: all current facts, the patch-aging classification, and the
// validation state.
package snapshot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"patchpanel/internal/audit"
	"patchpanel/internal/classify"
	"patchpanel/internal/config"
	"patchpanel/internal/facts"
	"patchpanel/internal/validation"
)

// RefreshAction is the audit action label every refresh records.
const RefreshAction = "Dashboard Data Refreshed"

// Snapshot is the aggregate of one refresh. It is owned by the caller and
// never mutated after Refresh returns; the previous snapshot is simply
// discarded.
type Snapshot struct {
	ID         uuid.UUID
	Taken      time.Time
	Facts      map[facts.Kind]facts.Fact
	Compliance classify.Result
	Validation validation.State
}

// SeverityLabel returns the classification shown on the panel. An unknown
// aging surfaces as "Unknown", never as a numeric severity.
func (s *Snapshot) SeverityLabel() string {
	if !s.Compliance.Known {
		return "Unknown"
	}
	return string(s.Compliance.Severity)
}

// Refresher composes the fact providers, the classifier, and the
// validation reader into snapshots, auditing every refresh. It holds no
// state across calls beyond the trail writer and the configuration.
type Refresher struct {
	providers    *facts.Providers
	reader       *validation.Reader
	trail        *audit.Writer
	warningDays  int
	criticalDays int
	now          func() time.Time
}

// New returns a refresher using the thresholds from cfg.
func New(cfg *config.Config, providers *facts.Providers, reader *validation.Reader, trail *audit.Writer) *Refresher {
	return &Refresher{
		providers:    providers,
		reader:       reader,
		trail:        trail,
		warningDays:  cfg.PatchAgingWarningDays,
		criticalDays: cfg.PatchAgingCriticalDays,
		now:          time.Now,
	}
}

// Refresh collects all facts, classifies patch aging, and reads the
// validation marker. Exactly one audit entry is appended per call: a
// Success entry for a completed snapshot, or a Failed entry carrying the
// message when anything escapes orchestration. A panic inside a probe is
// converted into that Failed entry and a returned error, never propagated.
func (r *Refresher) Refresh(ctx context.Context) (snap *Snapshot, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			snap = nil
			err = fmt.Errorf("refresh failed: %v", rec)
		}
		if err != nil {
			r.trail.Append(audit.Entry{Action: RefreshAction, Result: audit.Failed, Details: err.Error()})
			return
		}
		r.trail.Append(audit.Entry{Action: RefreshAction, Result: audit.Success, Details: "snapshot " + snap.ID.String()})
	}()

	collected := r.providers.All(ctx)

	var lastUpdate time.Time
	if f := collected[facts.LastUpdate]; f.Status == facts.StatusValue {
		lastUpdate = f.Time
	}

	snap = &Snapshot{
		ID:         uuid.New(),
		Taken:      r.now(),
		Facts:      collected,
		Compliance: classify.Classify(lastUpdate, r.now(), r.warningDays, r.criticalDays),
		Validation: r.reader.Read(),
	}

	log.Printf("[DEBUG] Snapshot %s assembled in %v (aging: %s, validation: %s)",
		snap.ID, time.Since(start), snap.SeverityLabel(), snap.Validation.Status)
	return snap, nil
}
