package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireAndCleanup(t *testing.T) {
	root := t.TempDir()
	ws, err := Acquire(root)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(ws.Dir), "trackmix-") {
		t.Fatalf("workspace name: %q", ws.Dir)
	}
	if info, err := os.Stat(ws.Dir); err != nil || !info.IsDir() {
		t.Fatalf("workspace dir missing: %v", err)
	}

	inner := ws.Path("track1_extracted.flac")
	if err := os.WriteFile(inner, []byte("x"), 0o644); err != nil {
		t.Fatalf("write intermediate: %v", err)
	}

	dir := ws.Dir
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("workspace not removed: %v", err)
	}
	// Idempotent.
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
}

func TestAcquireUniqueDirs(t *testing.T) {
	root := t.TempDir()
	first, err := Acquire(root)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	firstDir := first.Dir
	if err := first.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	second, err := Acquire(root)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	defer second.Cleanup()
	if second.Dir == firstDir {
		t.Fatalf("workspace dirs must be unique, both %q", firstDir)
	}
}
