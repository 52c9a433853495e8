package adapter

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const netshTimeout = 10 * time.Second

// NetshClient drives adapter administrative state through netsh.
type NetshClient struct{}

// List parses `netsh interface show interface` output into adapters.
func (NetshClient) List(ctx context.Context) ([]Interface, error) {
	ctx, cancel := context.WithTimeout(ctx, netshTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, "netsh", "interface", "show", "interface").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("netsh show interface failed: %w\n%s", err, strings.TrimSpace(string(output)))
	}
	return parseInterfaceTable(string(output)), nil
}

// SetEnabled flips the adapter's administrative state. netsh reports a
// privilege rejection in its output, not through the exit code alone.
func (NetshClient) SetEnabled(ctx context.Context, name string, enabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, netshTimeout)
	defer cancel()

	admin := "disable"
	if enabled {
		admin = "enable"
	}
	output, err := exec.CommandContext(ctx,
		"netsh", "interface", "set", "interface", "name="+name, "admin="+admin).CombinedOutput()
	text := string(output)
	if isAccessDenied(text) {
		return ErrAccessDenied
	}
	if err != nil {
		return fmt.Errorf("netsh set interface failed: %w\n%s", err, strings.TrimSpace(text))
	}
	return nil
}

// parseInterfaceTable reads the four-column netsh table:
//
//	Admin State    State          Type             Interface Name
//	-------------------------------------------------------------
//	Enabled        Connected      Dedicated        Wi-Fi
func parseInterfaceTable(output string) []Interface {
	var ifaces []Interface
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		var status AdminStatus
		switch fields[0] {
		case "Enabled":
			status = Up
		case "Disabled":
			status = Down
		default:
			// Header and separator lines.
			continue
		}
		ifaces = append(ifaces, Interface{
			Name:   strings.Join(fields[3:], " "),
			Status: status,
		})
	}
	return ifaces
}

func isAccessDenied(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "access is denied") ||
		strings.Contains(lower, "requires elevation") ||
		strings.Contains(lower, "run as administrator")
}
