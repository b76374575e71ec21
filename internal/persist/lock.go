package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// LockFile represents the metadata stored in the data directory's .lock.
type LockFile struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Timestamp time.Time `json:"timestamp"`
}

// FileLock guards the data directory against a second server instance
// writing the same sessions file.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock for the given data directory.
func NewFileLock(dataDir string) *FileLock {
	return &FileLock{path: filepath.Join(dataDir, ".lock")}
}

// Acquire attempts to acquire the lock with stale detection.
func (l *FileLock) Acquire() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()

		existing, readErr := l.readLockFile()
		if readErr == nil && l.isStale(existing) {
			_ = os.Remove(l.path)
			return l.Acquire()
		}
		if readErr == nil {
			age := time.Since(existing.Timestamp).Round(time.Second)
			return fmt.Errorf("data directory locked by PID %d (%v ago)", existing.PID, age)
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	l.file = file

	hostname, _ := os.Hostname()
	data, _ := json.MarshalIndent(LockFile{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Timestamp: time.Now(),
	}, "", "  ")
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}

	return nil
}

// Release releases the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
	return os.Remove(l.path)
}

func (l *FileLock) readLockFile() (*LockFile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var lock LockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

// isStale checks if a lock is stale (process dead or >30min old).
func (l *FileLock) isStale(lock *LockFile) bool {
	process, err := os.FindProcess(lock.PID)
	if err != nil {
		return true
	}
	// On Unix FindProcess always succeeds; signal 0 probes liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(lock.Timestamp) > 30*time.Minute
}
