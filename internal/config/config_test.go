package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"patchpanel/internal/config"
)

const sampleConfig = `
logoPath: C:\ProgramData\Panel\logo.png
validationMarkerPath: C:\ProgramData\Panel\validated.txt
auditLogPath: C:\ProgramData\Panel\audit.csv
refreshDelaySeconds: 120
patchAgingWarningDays: 14
patchAgingCriticalDays: 45
transparencyLevel: 0.8
widgetMode: true
`

func TestParseFullConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if cfg.AuditLogPath != `C:\ProgramData\Panel\audit.csv` {
		t.Errorf("AuditLogPath = %q", cfg.AuditLogPath)
	}
	if cfg.PatchAgingWarningDays != 14 || cfg.PatchAgingCriticalDays != 45 {
		t.Errorf("Thresholds = (%d, %d), want (14, 45)", cfg.PatchAgingWarningDays, cfg.PatchAgingCriticalDays)
	}
	if cfg.RefreshDelay() != 120*time.Second {
		t.Errorf("RefreshDelay = %v, want 2m", cfg.RefreshDelay())
	}
	if cfg.SettleDelay() != time.Duration(config.DefaultSettleDelaySeconds)*time.Second {
		t.Errorf("SettleDelay = %v, want default", cfg.SettleDelay())
	}
	if !cfg.WidgetMode || cfg.TransparencyLevel != 0.8 {
		t.Errorf("UI options not carried through: widgetMode=%v transparency=%v", cfg.WidgetMode, cfg.TransparencyLevel)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	minimal := "validationMarkerPath: /var/lib/panel/validated.txt\nauditLogPath: /var/lib/panel/audit.csv\n"
	cfg, err := config.Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Failed to parse minimal config: %v", err)
	}

	if cfg.RefreshDelaySeconds != config.DefaultRefreshDelaySeconds {
		t.Errorf("RefreshDelaySeconds = %d, want default %d", cfg.RefreshDelaySeconds, config.DefaultRefreshDelaySeconds)
	}
	if cfg.PatchAgingWarningDays != config.DefaultWarningDays {
		t.Errorf("PatchAgingWarningDays = %d, want default %d", cfg.PatchAgingWarningDays, config.DefaultWarningDays)
	}
	if cfg.PatchAgingCriticalDays != config.DefaultCriticalDays {
		t.Errorf("PatchAgingCriticalDays = %d, want default %d", cfg.PatchAgingCriticalDays, config.DefaultCriticalDays)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing audit path",
			"validationMarkerPath: /tmp/v.txt\n",
			"auditLogPath",
		},
		{
			"missing marker path",
			"auditLogPath: /tmp/a.csv\n",
			"validationMarkerPath",
		},
		{
			"warning not positive",
			"validationMarkerPath: /tmp/v.txt\nauditLogPath: /tmp/a.csv\npatchAgingWarningDays: 0\n",
			"patchAgingWarningDays",
		},
		{
			"critical not above warning",
			"validationMarkerPath: /tmp/v.txt\nauditLogPath: /tmp/a.csv\npatchAgingWarningDays: 30\npatchAgingCriticalDays: 30\n",
			"patchAgingCriticalDays",
		},
		{
			"zero refresh delay",
			"validationMarkerPath: /tmp/v.txt\nauditLogPath: /tmp/a.csv\nrefreshDelaySeconds: 0\n",
			"refreshDelaySeconds",
		},
		{
			"not yaml",
			"{{{",
			"parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RefreshDelaySeconds != 120 {
		t.Errorf("RefreshDelaySeconds = %d, want 120", cfg.RefreshDelaySeconds)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}
