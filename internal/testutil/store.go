package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/tablecheck/internal/store"
)

// MemoryStore opens an in-memory store, applies fixture statements, and
// closes the store when the test ends.
func MemoryStore(t testing.TB, fixtures ...string) *store.Store {
	t.Helper()

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if len(fixtures) > 0 {
		if err := st.Exec(context.Background(), fixtures...); err != nil {
			t.Fatalf("failed to apply fixtures: %v", err)
		}
	}
	return st
}

// WriteFile writes content to dir/name, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
