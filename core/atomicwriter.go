package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AtomicWriteConfig controls how generated files reach disk.
type AtomicWriteConfig struct {
	UseFsync       bool          // fsync the temp file before the rename
	LockTimeout    time.Duration // max wait for another writer's lock
	StaleLockAge   time.Duration // locks older than this are taken over
	TempSuffix     string
	BackupOriginal bool // copy an existing file to path.bak.<timestamp> first
}

// DefaultAtomicConfig returns the settings the translate command uses.
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		LockTimeout:  5 * time.Second,
		StaleLockAge: time.Minute,
		TempSuffix:   ".cs2hx.tmp",
	}
}

// AtomicWriter replaces files through a temp file and rename, guarded by a
// path.lock file so two runs never interleave writes to one output.
type AtomicWriter struct {
	config AtomicWriteConfig
	mu     sync.Mutex
	held   map[string]*os.File
}

func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	if config.TempSuffix == "" {
		config.TempSuffix = ".cs2hx.tmp"
	}
	return &AtomicWriter{config: config, held: make(map[string]*os.File)}
}

// WriteFile writes content to path, creating parent directories. It reports
// false without touching the file when path already holds content.
func (aw *AtomicWriter) WriteFile(path, content string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := aw.acquireLock(path); err != nil {
		return false, fmt.Errorf("failed to acquire lock for %s: %w", path, err)
	}
	defer aw.releaseLock(path)

	mode := os.FileMode(0o644)
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, []byte(content)) {
			return false, nil
		}
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if aw.config.BackupOriginal {
			backup := fmt.Sprintf("%s.bak.%s", path, time.Now().Format("20060102-150405"))
			if err := os.WriteFile(backup, existing, mode); err != nil {
				return false, fmt.Errorf("failed to create backup: %w", err)
			}
		}
	case !os.IsNotExist(err):
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	tempPath := path + aw.config.TempSuffix
	temp, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return false, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return false, fmt.Errorf("failed to write content: %w", err)
	}
	if aw.config.UseFsync {
		if err := temp.Sync(); err != nil {
			temp.Close()
			os.Remove(tempPath)
			return false, fmt.Errorf("failed to sync: %w", err)
		}
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return false, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return false, fmt.Errorf("failed to atomic rename: %w", err)
	}
	return true, nil
}

func (aw *AtomicWriter) acquireLock(path string) error {
	lockPath := path + ".lock"
	deadline := time.Now().Add(aw.config.LockTimeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
			aw.mu.Lock()
			aw.held[path] = f
			aw.mu.Unlock()
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lock file: %w", err)
		}
		if aw.isLockStale(lockPath) {
			os.Remove(lockPath)
			continue
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timeout waiting for lock on %s", path)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (aw *AtomicWriter) releaseLock(path string) {
	aw.mu.Lock()
	f, ok := aw.held[path]
	delete(aw.held, path)
	aw.mu.Unlock()
	if ok {
		f.Close()
		os.Remove(f.Name())
	}
}

// isLockStale reports whether a lock outlived StaleLockAge. A crashed run
// leaves its lock behind; age is the only portable signal.
func (aw *AtomicWriter) isLockStale(lockPath string) bool {
	if aw.config.StaleLockAge <= 0 {
		return false
	}
	info, err := os.Stat(lockPath)
	if err != nil {
		return os.IsNotExist(err)
	}
	return time.Since(info.ModTime()) > aw.config.StaleLockAge
}

// Cleanup releases every lock this writer still holds.
func (aw *AtomicWriter) Cleanup() {
	aw.mu.Lock()
	paths := make([]string, 0, len(aw.held))
	for p := range aw.held {
		paths = append(paths, p)
	}
	aw.mu.Unlock()
	for _, p := range paths {
		aw.releaseLock(p)
	}
}
