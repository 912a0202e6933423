package git

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
)

// ErrRepoBusy indicates another propagation run holds the repo lock.
var ErrRepoBusy = errors.New("another propagation is already running in this repository")

// RepoLock provides exclusive per-repository locking using flock.
// The lock file lives inside .git so it never shows up as an
// untracked file.
type RepoLock struct {
	path string
	file *os.File
}

// NewRepoLock creates a lock for the repository at repoPath.
func NewRepoLock(repoPath string) *RepoLock {
	return &RepoLock{path: filepath.Join(repoPath, ".git", "gitprop.lock")}
}

// TryLock acquires an exclusive lock without blocking.
// Returns ErrRepoBusy if the lock is held by another process.
func (l *RepoLock) TryLock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrRepoBusy
		}
		return err
	}

	l.file = f
	return nil
}

// Unlock releases the lock and closes the file.
func (l *RepoLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	err := l.file.Close()
	l.file = nil
	return err
}
