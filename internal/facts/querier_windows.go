//go:build windows

package facts

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	// Value written by the Windows Update agent after every successful
	// install pass.
	updateResultsKey      = `SOFTWARE\Microsoft\Windows\CurrentVersion\WindowsUpdate\Auto Update\Results\Install`
	lastSuccessTimeValue  = "LastSuccessTime"
	lastSuccessTimeLayout = "2006-01-02 15:04:05"

	probeTimeout = 5 * time.Second
)

// windowsQuerier answers the temporal probes from the Win32 API and the
// registry, falling back to the hotfix history where the WindowsUpdate
// key is absent.
type windowsQuerier struct{}

// NewSystemQuerier returns the querier for the current OS.
func NewSystemQuerier() SystemQuerier { return windowsQuerier{} }

func (windowsQuerier) BootTime(_ context.Context) (time.Time, error) {
	ticks := windows.GetTickCount64()
	return time.Now().Add(-time.Duration(ticks) * time.Millisecond), nil
}

func (windowsQuerier) LastUpdateTime(ctx context.Context) (time.Time, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, updateResultsKey, registry.QUERY_VALUE)
	if err != nil {
		log.Printf("[DEBUG] WindowsUpdate results key unavailable, trying hotfix history: %v", err)
		return hotfixInstallTime(ctx)
	}
	defer func() {
		if err := key.Close(); err != nil {
			log.Printf("[WARN] Error closing registry key: %v", err)
		}
	}()

	val, _, err := key.GetStringValue(lastSuccessTimeValue)
	if err != nil {
		log.Printf("[DEBUG] %s value unavailable, trying hotfix history: %v", lastSuccessTimeValue, err)
		return hotfixInstallTime(ctx)
	}
	t, err := time.ParseInLocation(lastSuccessTimeLayout, val, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable %s %q: %w", lastSuccessTimeValue, val, err)
	}
	return t, nil
}

// hotfixInstallTime reads the installed hotfix records and returns the
// most recent dated one.
func hotfixInstallTime(ctx context.Context) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, "wmic", "qfe", "get", "InstalledOn").Output()
	if err != nil {
		return time.Time{}, fmt.Errorf("wmic qfe failed: %w", err)
	}
	return latestInstalledOn(string(output))
}
