//go:build !windows

package facts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	probeTimeout   = 5 * time.Second
	uptimeSLayout  = "2006-01-02 15:04:05"
	uptimeSCommand = "uptime"
)

// execQuerier keeps the module buildable and testable off Windows. Boot
// time shells out the way the compliance probes do; update history has no
// portable source and is reported as absent.
type execQuerier struct{}

// NewSystemQuerier returns the querier for the current OS.
func NewSystemQuerier() SystemQuerier { return execQuerier{} }

func (execQuerier) BootTime(ctx context.Context) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, uptimeSCommand, "-s").Output()
	if err != nil {
		return time.Time{}, fmt.Errorf("uptime -s failed: %w", err)
	}
	t, err := time.ParseInLocation(uptimeSLayout, strings.TrimSpace(string(output)), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable uptime output: %w", err)
	}
	return t, nil
}

func (execQuerier) LastUpdateTime(_ context.Context) (time.Time, error) {
	return time.Time{}, ErrNoUpdateRecords
}
