// Package adapter toggles the administrative state of the wireless
// adapter. Toggling requires elevation; privilege denial is a named
// condition callers can distinguish from generic failure.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"patchpanel/internal/audit"
	"patchpanel/internal/facts"
)

// AdminStatus is the administrative state of a network adapter.
type AdminStatus string

const (
	Up            AdminStatus = "Up"
	Down          AdminStatus = "Disabled"
	StatusUnknown AdminStatus = "Unknown"
)

// Sentinel errors callers distinguish with errors.Is.
var (
	ErrAdapterNotFound = errors.New("adapter not found")
	ErrAccessDenied    = errors.New("access denied")
)

// Interface is one adapter as reported by the admin client.
type Interface struct {
	Name   string
	Status AdminStatus
}

// AdminClient queries and mutates adapter administrative state.
// Implementations report a privilege rejection as ErrAccessDenied.
type AdminClient interface {
	List(ctx context.Context) ([]Interface, error)
	SetEnabled(ctx context.Context, name string, enabled bool) error
}

// Transition describes one completed toggle. To reflects the requested
// target state; the caller must re-refresh host state to observe it.
type Transition struct {
	Adapter string
	From    AdminStatus
	To      AdminStatus
}

// ToggleAction is the audit action label every toggle attempt records.
const ToggleAction = "WiFi Adapter Toggled"

// Controller flips the wireless adapter between Up and Disabled.
type Controller struct {
	client      AdminClient
	trail       *audit.Writer
	settleDelay time.Duration
	sleep       func(time.Duration)
}

// New returns a controller that waits settleDelay after a state change
// for the driver to converge.
func New(client AdminClient, trail *audit.Writer, settleDelay time.Duration) *Controller {
	return &Controller{client: client, trail: trail, settleDelay: settleDelay, sleep: time.Sleep}
}

// Toggle locates the wireless adapter by name pattern (first match in
// enumeration order) and inverts its administrative state. Exactly one
// audit entry records the attempt, whatever the outcome.
func (c *Controller) Toggle(ctx context.Context) (Transition, error) {
	ifaces, err := c.client.List(ctx)
	if err != nil {
		err = fmt.Errorf("failed to enumerate adapters: %w", err)
		c.trail.Append(audit.Entry{Action: ToggleAction, Result: audit.Failed, Details: err.Error()})
		return Transition{}, err
	}

	var target *Interface
	for i := range ifaces {
		if facts.WirelessNamePattern.MatchString(ifaces[i].Name) {
			target = &ifaces[i]
			break
		}
	}
	if target == nil {
		c.trail.Append(audit.Entry{Action: ToggleAction, Result: audit.Failed, Details: "Adapter not found"})
		return Transition{}, ErrAdapterNotFound
	}

	// Invert: Up goes down, anything else (Disabled, Unknown) goes up.
	tr := Transition{Adapter: target.Name, From: target.Status, To: Up}
	enable := true
	if target.Status == Up {
		tr.To = Down
		enable = false
	}

	if err := c.client.SetEnabled(ctx, target.Name, enable); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			c.trail.Append(audit.Entry{Action: ToggleAction, Result: audit.Failed, Details: "Access Denied"})
			return Transition{}, fmt.Errorf("toggling %s: %w", target.Name, ErrAccessDenied)
		}
		c.trail.Append(audit.Entry{Action: ToggleAction, Result: audit.Failed, Details: err.Error()})
		return Transition{}, fmt.Errorf("failed to toggle %s: %w", target.Name, err)
	}

	// Deliberate synchronous wait: the caller must not observe adapter
	// state before the driver has converged.
	c.sleep(c.settleDelay)

	c.trail.Append(audit.Entry{
		Action:  ToggleAction,
		Result:  audit.Success,
		Details: fmt.Sprintf("Changed from %s to %s", tr.From, tr.To),
	})
	log.Printf("[INFO] Adapter %s changed from %s to %s", target.Name, tr.From, tr.To)
	return tr, nil
}
