package classify

import (
	"testing"
	"time"
)

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		agingDays int
		want      Severity
	}{
		{"fresh", 0, OK},
		{"just under warning", 29, OK},
		{"exactly warning", 30, Warning},
		{"between thresholds", 45, Warning},
		{"just under critical", 59, Warning},
		{"exactly critical", 60, Critical},
		{"well past critical", 200, Critical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lastUpdate := now.AddDate(0, 0, -tt.agingDays)
			got := Classify(lastUpdate, now, 30, 60)
			if !got.Known {
				t.Fatal("Result should be known for a dated update")
			}
			if got.AgingDays != tt.agingDays {
				t.Errorf("AgingDays = %d, want %d", got.AgingDays, tt.agingDays)
			}
			if got.Severity != tt.want {
				t.Errorf("Severity = %s, want %s", got.Severity, tt.want)
			}
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	got := Classify(time.Time{}, time.Now(), 30, 60)
	if got.Known {
		t.Error("Zero lastUpdate should yield an unknown result")
	}
	if got.AgingDays != 0 || got.Severity != "" {
		t.Errorf("Unknown result should carry no classification, got %+v", got)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rank := map[Severity]int{OK: 0, Warning: 1, Critical: 2}

	prev := -1
	for days := 0; days <= 120; days++ {
		got := Classify(now.AddDate(0, 0, -days), now, 30, 60)
		if rank[got.Severity] < prev {
			t.Fatalf("Severity decreased at %d days: %s", days, got.Severity)
		}
		prev = rank[got.Severity]
	}
}

func TestClassifyDeltaOnly(t *testing.T) {
	// Only the delta between lastUpdate and now matters, not the
	// absolute clock values.
	delta := 45 * 24 * time.Hour

	nowA := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	nowB := time.Date(2031, 7, 19, 23, 59, 0, 0, time.UTC)

	gotA := Classify(nowA.Add(-delta), nowA, 30, 60)
	gotB := Classify(nowB.Add(-delta), nowB, 30, 60)

	if gotA != gotB {
		t.Errorf("Same delta classified differently: %+v vs %+v", gotA, gotB)
	}
}

func TestClassifyFloorsPartialDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// 29 days and 23 hours is still 29 whole days.
	got := Classify(now.Add(-(29*24+23)*time.Hour), now, 30, 60)
	if got.AgingDays != 29 {
		t.Errorf("AgingDays = %d, want 29", got.AgingDays)
	}
	if got.Severity != OK {
		t.Errorf("Severity = %s, want %s", got.Severity, OK)
	}
}

func TestClassifyClampsFutureUpdate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := Classify(now.Add(48*time.Hour), now, 30, 60)
	if got.AgingDays != 0 {
		t.Errorf("AgingDays = %d, want 0 for a future install date", got.AgingDays)
	}
	if got.Severity != OK {
		t.Errorf("Severity = %s, want %s", got.Severity, OK)
	}
}
