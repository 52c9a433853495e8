// Package main implements the patchpanel dashboard: a desktop status and
// compliance panel core driven from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/fsnotify/fsnotify"

	"patchpanel/internal/adapter"
	"patchpanel/internal/audit"
	"patchpanel/internal/config"
	"patchpanel/internal/facts"
	"patchpanel/internal/snapshot"
	"patchpanel/internal/validation"
)

const (
	// Retry configuration for the first refresh. WMI-backed probes are
	// flaky right after logon; later cycles just wait for the next tick.
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second

	startAction = "Dashboard Started"
	stopAction  = "Dashboard Stopped"
)

var (
	configPath = flag.String("config", "panel.yaml", "Path to the panel configuration file")
	once       = flag.Bool("once", false, "Run a single refresh, print the snapshot, and exit")
	toggleWifi = flag.Bool("toggle-wifi", false, "Toggle the wireless adapter and exit")
	interval   = flag.Duration("interval", 0, "Refresh interval (overrides refreshDelaySeconds)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	trail := audit.NewWriter(cfg.AuditLogPath)
	providers := facts.New(facts.NewSystemQuerier())
	reader := validation.NewReader(cfg.ValidationMarkerPath)
	refresher := snapshot.New(cfg, providers, reader, trail)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *toggleWifi {
		controller := adapter.New(adapter.NetshClient{}, trail, cfg.SettleDelay())
		tr, err := controller.Toggle(ctx)
		if err != nil {
			log.Fatalf("Toggle failed: %v", err)
		}
		log.Printf("[INFO] Adapter %s changed from %s to %s", tr.Adapter, tr.From, tr.To)
		return
	}

	if *once {
		snap, err := refresher.Refresh(ctx)
		if err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
		fmt.Print(render(snap))
		return
	}

	refreshDelay := cfg.RefreshDelay()
	if *interval > 0 {
		refreshDelay = *interval
	}

	trail.Append(audit.Entry{Action: startAction, Result: audit.Info})
	defer trail.Append(audit.Entry{Action: stopAction, Result: audit.Info})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	markerEvents := watchMarker(ctx, cfg.ValidationMarkerPath)

	log.Printf("[INFO] Panel started. Refresh every %v, audit trail: %s", refreshDelay, cfg.AuditLogPath)
	if *debug {
		log.Printf("[DEBUG] Thresholds: warning=%dd critical=%dd, marker: %s",
			cfg.PatchAgingWarningDays, cfg.PatchAgingCriticalDays, cfg.ValidationMarkerPath)
	}

	// Initial refresh with retry.
	snap, err := retry.DoWithData(func() (*snapshot.Snapshot, error) {
		return refresher.Refresh(ctx)
	}, retry.Attempts(maxRetries), retry.Delay(initialBackoff), retry.MaxDelay(maxBackoff))
	if err != nil {
		log.Printf("[ERROR] Initial refresh failed after %d attempts: %v", maxRetries, err)
	} else {
		fmt.Print(render(snap))
	}

	ticker := time.NewTicker(refreshDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refreshAndRender(ctx, refresher)
		case <-markerEvents:
			log.Print("[INFO] Validation marker changed, refreshing")
			refreshAndRender(ctx, refresher)
		case <-sigChan:
			log.Print("[INFO] Shutting down panel...")
			return
		case <-ctx.Done():
			return
		}
	}
}

func refreshAndRender(ctx context.Context, refresher *snapshot.Refresher) {
	start := time.Now()
	snap, err := refresher.Refresh(ctx)
	if err != nil {
		log.Printf("[ERROR] Refresh failed: %v", err)
		return
	}
	if *debug {
		log.Printf("[DEBUG] Refresh completed in %v", time.Since(start))
	}
	fmt.Print(render(snap))
}

// render formats one snapshot as the text block the panel displays.
func render(snap *snapshot.Snapshot) string {
	var b strings.Builder
	f := snap.Facts
	fmt.Fprintf(&b, "Host state @ %s\n", snap.Taken.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "  WiFi IP:      %s\n", f[facts.WifiIP])
	fmt.Fprintf(&b, "  Ethernet IP:  %s\n", f[facts.EthernetIP])
	fmt.Fprintf(&b, "  Logged user:  %s\n", f[facts.LoggedUser])
	fmt.Fprintf(&b, "  Last reboot:  %s\n", f[facts.LastReboot])
	fmt.Fprintf(&b, "  Last update:  %s\n", f[facts.LastUpdate])
	if snap.Compliance.Known {
		fmt.Fprintf(&b, "  Patch aging:  %d days (%s)\n", snap.Compliance.AgingDays, snap.Compliance.Severity)
	} else {
		fmt.Fprintf(&b, "  Patch aging:  Unknown\n")
	}
	fmt.Fprintf(&b, "  Validation:   %s\n", snap.Validation)
	return b.String()
}

// watchMarker watches the validation marker's directory and signals when
// the marker itself is created, rewritten, or removed. The directory is
// watched rather than the file so the signal survives marker deletion.
// Watch setup failure degrades to timer-only refreshes.
func watchMarker(ctx context.Context, path string) <-chan struct{} {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[WARN] Marker watch unavailable: %v", err)
		return nil
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Printf("[WARN] Failed to watch %s: %v", dir, err)
		if err := watcher.Close(); err != nil {
			log.Printf("[WARN] Error closing watcher: %v", err)
		}
		return nil
	}

	events := make(chan struct{}, 1)
	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("[WARN] Error closing watcher: %v", err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if *debug {
					log.Printf("[DEBUG] Marker event: %s", ev)
				}
				select {
				case events <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] Marker watch error: %v", err)
			}
		}
	}()
	return events
}
