// SPDX-License-Identifier: MPL-2.0

//go:build linux

package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// errFlockUnavailable mirrors lock_other.go. On Linux only Installer.lockWorkspace
// returns it, for workspaces outside the OS filesystem.
var errFlockUnavailable = errors.New("flock not available on this platform")

// fileLock holds a blocking exclusive flock serializing workspace mutations across
// amaterasu processes. An orphaned lock file is harmless: the kernel drops the
// flock when the descriptor is closed, including on crash.
type fileLock struct {
	file *os.File
}

// acquireLock opens (or creates) the lock file and blocks until the exclusive
// flock is granted.
func acquireLock(path string) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &fileLock{file: f}, nil
}

// Release unlocks and closes the file. It is safe to call more than once.
func (l *fileLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		slog.Debug("flock unlock failed", "error", err)
	}
	if err := l.file.Close(); err != nil {
		slog.Debug("lock file close failed", "error", err)
	}
	l.file = nil
}
