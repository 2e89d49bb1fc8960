// Package lock keeps a single process per bot token consuming Telegram
// updates. getUpdates fails with a conflict when two processes long-poll the
// same bot, so the second process should refuse to start instead.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrHeld is returned when another process already holds the lock.
var ErrHeld = errors.New("lock held by another process")

// Lock is an flock(2) on a file that records the holder's PID. The lock lives
// as long as the file descriptor stays open.
type Lock struct {
	path string
	f    *os.File
}

// Acquire takes an exclusive, non-blocking lock on path.
func Acquire(path string) (*Lock, error) {
	if path == "" {
		return nil, fmt.Errorf("lock path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrHeld, path)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	l := &Lock{path: path, f: f}
	if err := l.writePID(); err != nil {
		_ = l.Release()
		return nil, err
	}
	return l, nil
}

func (l *Lock) writePID() error {
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := l.f.WriteAt([]byte(fmt.Sprintf("%d\n", os.Getpid())), 0); err != nil {
		return fmt.Errorf("write pid: %w", err)
	}
	return l.f.Sync()
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	err := l.f.Close()
	l.f = nil
	return err
}

// PollPath is the default lock location for a bot, keyed by a fingerprint of
// its token so that different bots on one host do not contend.
func PollPath(dir, tokenFingerprint string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "hookbot-poll-"+tokenFingerprint+".lock")
}
