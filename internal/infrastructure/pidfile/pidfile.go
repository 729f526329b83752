package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// PIDFile enforces single-instance operation of the dispatch daemon.
// Only one scheduler may tick against a database at a time.
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire attempts to acquire the PID file lock.
// Returns an error if another daemon instance is already running.
func (p *PIDFile) Acquire() error {
	if _, err := os.Stat(p.path); err == nil {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("failed to read existing PID file: %w", err)
		}

		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			// Corrupt PID file, reclaim it
			_ = os.Remove(p.path)
		} else {
			if isProcessRunning(pid) {
				return fmt.Errorf("dispatch daemon is already running (PID %d)", pid)
			}
			// Stale PID file from a dead process
			_ = os.Remove(p.path)
		}
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// KillExisting terminates the daemon recorded in the PID file, if any.
// SIGTERM first, then SIGKILL if the process has not exited in time.
func (p *PIDFile) KillExisting() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return os.Remove(p.path)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return os.Remove(p.path)
	}

	_ = process.Signal(syscall.SIGTERM)
	for i := 0; i < 50; i++ {
		if !isProcessRunning(pid) {
			return os.Remove(p.path)
		}
		time.Sleep(100 * time.Millisecond)
	}

	_ = process.Signal(syscall.SIGKILL)
	return os.Remove(p.path)
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning checks whether a process with the given PID exists.
// Signal 0 performs the existence/permission check without signalling.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix FindProcess always succeeds, so probe with signal 0
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if err == syscall.ESRCH {
		return false
	}
	if err == syscall.EPERM {
		// Exists but owned by someone else
		return true
	}
	return false
}
