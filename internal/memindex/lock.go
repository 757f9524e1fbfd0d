package memindex

import (
	"os"
	"syscall"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memerrors"
)

// lockPollInterval is the backoff between acquisition attempts, matching
// the Python FileLock's 10ms sleep.
const lockPollInterval = 10 * time.Millisecond

// FileLock is an advisory, whole-file, cross-process exclusive lock backed
// by flock(2). It protects the read-modify-write cycle around the inverted
// index file the same way update-inverted-index.py's FileLock protects
// inverted-index.json.
type FileLock struct {
	path    string
	timeout time.Duration
	file    *os.File
}

// NewFileLock returns a lock over path with the given acquisition timeout.
func NewFileLock(path string, timeout time.Duration) *FileLock {
	return &FileLock{path: path, timeout: timeout}
}

// Acquire blocks until the lock is held or timeout elapses, in which case it
// returns a memerrors.LockTimeout error.
func (l *FileLock) Acquire() error {
	deadline := time.Now().Add(l.timeout)
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			if flockErr := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); flockErr == nil {
				l.file = f
				return nil
			}
			f.Close()
		}

		if time.Now().After(deadline) {
			return memerrors.New(memerrors.LockTimeout, "FileLock.Acquire", err)
		}
		time.Sleep(lockPollInterval)
	}
}

// Release unlocks and removes the lock file, mirroring the Python
// implementation's __exit__.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	_ = os.Remove(l.path)
	return err
}
