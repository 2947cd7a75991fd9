package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAndEnsureDBPathCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "journal.db")

	got, err := ResolveAndEnsureDBPath(target)
	if err != nil {
		t.Fatalf("ResolveAndEnsureDBPath failed: %v", err)
	}
	if got != target {
		t.Errorf("expected %s, got %s", target, got)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("expected directory %s to exist", filepath.Dir(target))
	}
}

func TestResolveAndEnsureDBPathKeepsMemory(t *testing.T) {
	got, err := ResolveAndEnsureDBPath(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ":memory:" {
		t.Errorf("expected :memory:, got %s", got)
	}
}

func TestDefaultDBPathEndsWithFileName(t *testing.T) {
	if filepath.Base(DefaultDBPath()) != dbFileName {
		t.Errorf("unexpected default path %s", DefaultDBPath())
	}
}
