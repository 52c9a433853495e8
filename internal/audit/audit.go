// Package audit appends action records to a flat, append-only trail file.
//
// The trail is best-effort by contract: a failure to create the directory,
// open the file, or append a row is logged and swallowed, because audit
// unavailability must never crash or block the monitoring function.
package audit

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Result classifies the outcome an entry records.
type Result string

const (
	Success Result = "Success"
	Failed  Result = "Failed"
	Warning Result = "Warning"
	Info    Result = "Info"
)

const (
	// Directory and file permissions.
	trailDirPerm  = 0o750
	trailFilePerm = 0o600

	timestampLayout = "2006-01-02 15:04:05"
)

// header is written exactly once, when the trail file is first created.
// Column order is fixed; rows are never edited or deleted.
var header = []string{"Timestamp", "User", "Domain", "Machine", "Action", "Result", "Details", "ProcessID"}

// Entry is one immutable record of an action.
type Entry struct {
	Timestamp time.Time
	User      string
	Domain    string
	Machine   string
	Action    string
	Result    Result
	Details   string
	ProcessID int
}

// Identity is the actor stamped on entries that don't carry their own.
type Identity struct {
	User    string
	Domain  string
	Machine string
}

// CurrentIdentity reads the session identity from the process environment.
func CurrentIdentity() Identity {
	user := os.Getenv("USERNAME")
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		user = "unknown"
	}
	machine, err := os.Hostname()
	if err != nil {
		machine = "unknown"
	}
	domain := os.Getenv("USERDOMAIN")
	if domain == "" {
		domain = machine
	}
	return Identity{User: user, Domain: domain, Machine: machine}
}

// Writer appends entries to the trail file. The file is opened, appended,
// and released per call; no handle is retained across appends.
type Writer struct {
	path     string
	identity Identity
	mu       sync.Mutex
	now      func() time.Time
}

// NewWriter returns a writer for the trail at path, stamping entries with
// the current session identity.
func NewWriter(path string) *Writer {
	return &Writer{path: path, identity: CurrentIdentity(), now: time.Now}
}

// Append records one entry, filling the timestamp, actor identity, and
// process ID when the caller left them zero. Append never fails the
// caller: any write failure is logged as a warning and swallowed.
func (w *Writer) Append(e Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = w.now()
	}
	if e.User == "" {
		e.User = w.identity.User
	}
	if e.Domain == "" {
		e.Domain = w.identity.Domain
	}
	if e.Machine == "" {
		e.Machine = w.identity.Machine
	}
	if e.ProcessID == 0 {
		e.ProcessID = os.Getpid()
	}

	if err := w.append(e); err != nil {
		log.Printf("[WARN] Audit append failed for action %q: %v", e.Action, err)
	}
}

func (w *Writer) append(e Entry) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, trailDirPerm); err != nil {
			return fmt.Errorf("failed to create trail directory: %w", err)
		}
	}

	// An absent or empty file still needs the header row.
	info, err := os.Stat(w.path)
	needHeader := err != nil || info.Size() == 0

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, trailFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open trail file: %w", err)
	}

	cw := csv.NewWriter(f)
	if needHeader {
		if err := cw.Write(header); err != nil {
			closeQuietly(f)
			return fmt.Errorf("failed to write header row: %w", err)
		}
	}
	record := []string{
		e.Timestamp.Format(timestampLayout),
		e.User,
		e.Domain,
		e.Machine,
		e.Action,
		string(e.Result),
		e.Details,
		strconv.Itoa(e.ProcessID),
	}
	if err := cw.Write(record); err != nil {
		closeQuietly(f)
		return fmt.Errorf("failed to write entry row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		closeQuietly(f)
		return fmt.Errorf("failed to flush entry row: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close trail file: %w", err)
	}
	return nil
}

func closeQuietly(f *os.File) {
	if err := f.Close(); err != nil {
		log.Printf("[WARN] Error closing trail file: %v", err)
	}
}
