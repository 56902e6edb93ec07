package core

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDefaultAtomicConfig(t *testing.T) {
	config := DefaultAtomicConfig()

	if config.TempSuffix != ".cs2hx.tmp" {
		t.Errorf("Expected TempSuffix '.cs2hx.tmp', got '%s'", config.TempSuffix)
	}
	if config.BackupOriginal {
		t.Error("Expected BackupOriginal to be false by default")
	}
	if config.LockTimeout != 5*time.Second {
		t.Errorf("Expected LockTimeout 5s, got %v", config.LockTimeout)
	}
}

func TestAtomicWriter_CreatesParentDirectories(t *testing.T) {
	target := filepath.Join(t.TempDir(), "game", "core", "Widget.hx")
	writer := NewAtomicWriter(DefaultAtomicConfig())

	written, err := writer.WriteFile(target, "class Widget {}\n")
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !written {
		t.Error("Expected first write to report written")
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(data) != "class Widget {}\n" {
		t.Errorf("Unexpected content %q", data)
	}
	if _, err := os.Stat(target + ".lock"); !os.IsNotExist(err) {
		t.Error("Expected lock file to be removed after write")
	}
	if _, err := os.Stat(target + ".cs2hx.tmp"); !os.IsNotExist(err) {
		t.Error("Expected temp file to be renamed away")
	}
}

func TestAtomicWriter_UnchangedContentIsSkipped(t *testing.T) {
	target := filepath.Join(t.TempDir(), "A.hx")
	writer := NewAtomicWriter(DefaultAtomicConfig())

	if _, err := writer.WriteFile(target, "same"); err != nil {
		t.Fatal(err)
	}
	written, err := writer.WriteFile(target, "same")
	if err != nil {
		t.Fatal(err)
	}
	if written {
		t.Error("Expected identical content not to be rewritten")
	}
}

func TestAtomicWriter_Backup(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "A.hx")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := DefaultAtomicConfig()
	config.BackupOriginal = true
	writer := NewAtomicWriter(config)

	if _, err := writer.WriteFile(target, "new"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var backups []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "A.hx.bak.") {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) != 1 {
		t.Fatalf("Expected one backup, found %v", backups)
	}
	data, _ := os.ReadFile(filepath.Join(dir, backups[0]))
	if string(data) != "old" {
		t.Errorf("Backup should hold the old content, got %q", data)
	}
}

func TestAtomicWriter_LockTimeout(t *testing.T) {
	target := filepath.Join(t.TempDir(), "A.hx")
	if err := os.WriteFile(target+".lock", []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := DefaultAtomicConfig()
	config.LockTimeout = 100 * time.Millisecond
	writer := NewAtomicWriter(config)

	_, err := writer.WriteFile(target, "x")
	if err == nil {
		t.Fatal("Expected timeout while another lock is held")
	}
	if !strings.Contains(err.Error(), "timeout waiting for lock") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestAtomicWriter_StaleLockIsTakenOver(t *testing.T) {
	target := filepath.Join(t.TempDir(), "A.hx")
	lock := target + ".lock"
	if err := os.WriteFile(lock, []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(lock, old, old); err != nil {
		t.Fatal(err)
	}

	writer := NewAtomicWriter(DefaultAtomicConfig())
	if _, err := writer.WriteFile(target, "x"); err != nil {
		t.Fatalf("Expected stale lock to be replaced, got %v", err)
	}
}

func TestAtomicWriter_ConcurrentWritesToDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	writer := NewAtomicWriter(DefaultAtomicConfig())

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := filepath.Join(dir, "pkg", string(rune('a'+i))+".hx")
			if _, err := writer.WriteFile(name, name); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "pkg"))
	if len(entries) != 20 {
		t.Errorf("Expected 20 files, got %d", len(entries))
	}
}
