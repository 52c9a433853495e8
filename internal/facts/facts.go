// Package facts collects host state facts: adapter addresses, the logged
// session identity, the last boot time, and the last patch install time.
//
// Every probe converts its own failures into a typed status instead of
// returning an error, so one failing probe never blocks the rest of a
// snapshot.
package facts

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"regexp"
	"time"
)

// Kind identifies one measured host property.
type Kind string

const (
	WifiIP     Kind = "wifi_ip"
	EthernetIP Kind = "ethernet_ip"
	LoggedUser Kind = "logged_user"
	LastReboot Kind = "last_reboot"
	LastUpdate Kind = "last_update"
)

// Status tags how a fact's value should be read. It distinguishes
// "definitely not connected" from "the probe itself failed".
type Status int

const (
	// StatusValue means Value or Time carries the measurement.
	StatusValue Status = iota
	// StatusNotConnected means the adapter class has no usable address.
	StatusNotConnected
	// StatusUnknown means the host has no record to answer from.
	StatusUnknown
	// StatusError means the underlying OS query failed.
	StatusError
)

// Fact is one measured property of the host at a point in time. Facts are
// immutable once produced and recreated on every refresh.
type Fact struct {
	Kind   Kind
	Status Status
	Value  string    // textual facts (addresses, user)
	Time   time.Time // temporal facts (reboot, update)
}

const displayTimeLayout = "2006-01-02 15:04:05"

// String renders the fact the way the panel displays it.
func (f Fact) String() string {
	switch f.Status {
	case StatusNotConnected:
		return "Not Connected"
	case StatusUnknown:
		return "Unknown"
	case StatusError:
		return "Error"
	default:
	}
	if !f.Time.IsZero() {
		return f.Time.Format(displayTimeLayout)
	}
	return f.Value
}

// ErrNoUpdateRecords is reported by SystemQuerier.LastUpdateTime when no
// installed update carries an install date.
var ErrNoUpdateRecords = errors.New("no update records with an install date")

// SystemQuerier answers the temporal probes from OS state. The Windows
// implementation reads the tick counter and the WindowsUpdate registry
// key; other platforms shell out.
type SystemQuerier interface {
	BootTime(ctx context.Context) (time.Time, error)
	LastUpdateTime(ctx context.Context) (time.Time, error)
}

// WirelessNamePattern matches the interface names Windows assigns to
// wireless adapters. First match in enumeration order wins.
var WirelessNamePattern = regexp.MustCompile(`(?i)wi-?fi`)

var ethernetNamePattern = regexp.MustCompile(`(?i)ethernet`)

// Iface is the slice of interface state the address probes need.
type Iface struct {
	Name  string
	Addrs []net.IP
}

// Providers runs the individual fact probes. The function fields exist so
// tests can substitute enumeration and the clock.
type Providers struct {
	Querier        SystemQuerier
	ListInterfaces func() ([]Iface, error)
	Now            func() time.Time
}

// New returns providers backed by the host's interfaces and querier.
func New(q SystemQuerier) *Providers {
	return &Providers{
		Querier:        q,
		ListInterfaces: systemInterfaces,
		Now:            time.Now,
	}
}

// All runs every probe and returns the facts keyed by kind.
func (p *Providers) All(ctx context.Context) map[Kind]Fact {
	return map[Kind]Fact{
		WifiIP:     p.WifiIP(),
		EthernetIP: p.EthernetIP(),
		LoggedUser: p.LoggedUser(),
		LastReboot: p.LastReboot(ctx),
		LastUpdate: p.LastUpdate(ctx),
	}
}

// WifiIP returns the first usable IPv4 address on a wireless adapter.
func (p *Providers) WifiIP() Fact {
	return p.adapterIP(WifiIP, WirelessNamePattern)
}

// EthernetIP returns the first usable IPv4 address on a wired adapter.
func (p *Providers) EthernetIP() Fact {
	return p.adapterIP(EthernetIP, ethernetNamePattern)
}

func (p *Providers) adapterIP(kind Kind, pattern *regexp.Regexp) Fact {
	ifaces, err := p.ListInterfaces()
	if err != nil {
		log.Printf("[WARN] Interface enumeration failed for %s: %v", kind, err)
		return Fact{Kind: kind, Status: StatusError}
	}
	for _, iface := range ifaces {
		if !pattern.MatchString(iface.Name) {
			continue
		}
		for _, ip := range iface.Addrs {
			if usableIPv4(ip) {
				return Fact{Kind: kind, Status: StatusValue, Value: ip.String()}
			}
		}
	}
	return Fact{Kind: kind, Status: StatusNotConnected}
}

// usableIPv4 excludes loopback (127.*) and link-local (169.254.*) ranges.
func usableIPv4(ip net.IP) bool {
	v4 := ip.To4()
	if v4 == nil {
		return false
	}
	if v4[0] == 127 {
		return false
	}
	if v4[0] == 169 && v4[1] == 254 {
		return false
	}
	return true
}

// LoggedUser reads the session identity from the process environment.
func (p *Providers) LoggedUser() Fact {
	user := os.Getenv("USERNAME")
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		user = "unknown"
	}
	return Fact{Kind: LoggedUser, Status: StatusValue, Value: user}
}

// LastReboot returns the OS uptime origin. A failed query falls back to
// "now", reporting zero uptime rather than failing the snapshot.
func (p *Providers) LastReboot(ctx context.Context) Fact {
	boot, err := p.Querier.BootTime(ctx)
	if err != nil {
		log.Printf("[WARN] Boot time probe failed, reporting zero uptime: %v", err)
		return Fact{Kind: LastReboot, Status: StatusValue, Time: p.Now()}
	}
	return Fact{Kind: LastReboot, Status: StatusValue, Time: boot}
}

// LastUpdate returns the most recent patch install time. A host with no
// dated update record yields Unknown; a failed query yields Error.
func (p *Providers) LastUpdate(ctx context.Context) Fact {
	t, err := p.Querier.LastUpdateTime(ctx)
	if err != nil {
		if errors.Is(err, ErrNoUpdateRecords) {
			return Fact{Kind: LastUpdate, Status: StatusUnknown}
		}
		log.Printf("[WARN] Update history probe failed: %v", err)
		return Fact{Kind: LastUpdate, Status: StatusError}
	}
	return Fact{Kind: LastUpdate, Status: StatusValue, Time: t}
}

// systemInterfaces enumerates the host's interfaces with their IPv4/IPv6
// addresses. Per-interface address failures are skipped, not fatal.
func systemInterfaces() ([]Iface, error) {
	netIfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	ifaces := make([]Iface, 0, len(netIfaces))
	for _, ni := range netIfaces {
		addrs, err := ni.Addrs()
		if err != nil {
			log.Printf("[WARN] Failed to read addresses of %s: %v", ni.Name, err)
			continue
		}
		iface := Iface{Name: ni.Name}
		for _, addr := range addrs {
			switch a := addr.(type) {
			case *net.IPNet:
				iface.Addrs = append(iface.Addrs, a.IP)
			case *net.IPAddr:
				iface.Addrs = append(iface.Addrs, a.IP)
			default:
			}
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}
