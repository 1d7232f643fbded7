package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wproctor/flightsign/pkg/budget"
)

func testUsage() budget.Usage {
	return budget.Usage{
		"schedule": {
			{Count: 7, WindowStart: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
			{Count: 42, WindowStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		},
		"weather": {
			{Count: 3, WindowStart: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
		},
	}
}

// TestFileStoreRoundTrip verifies usage survives a save/load cycle.
func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Expected store creation to succeed, got: %v", err)
	}

	saved := testUsage()
	if err := store.Save(saved); err != nil {
		t.Fatalf("Expected save to succeed, got: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Expected load to succeed, got: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(loaded))
	}
	if len(loaded["schedule"]) != 2 {
		t.Fatalf("Expected 2 schedule tiers, got %d", len(loaded["schedule"]))
	}
	if loaded["schedule"][0].Count != 7 {
		t.Errorf("Expected count 7, got %d", loaded["schedule"][0].Count)
	}
	if !loaded["schedule"][1].WindowStart.Equal(saved["schedule"][1].WindowStart) {
		t.Errorf("Expected window start preserved, got %v", loaded["schedule"][1].WindowStart)
	}
}

// TestFileStoreMissingFile verifies a fresh install loads empty usage.
func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected store creation to succeed, got: %v", err)
	}

	usage, err := store.Load()
	if err != nil {
		t.Fatalf("Expected missing file to load empty, got: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("Expected empty usage, got %d providers", len(usage))
	}
}

// TestFileStoreMalformed verifies a corrupt file surfaces an error rather
// than silently resetting the quota.
func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Expected store creation to succeed, got: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Error("Expected error for malformed usage file")
	}
}

// TestFileStoreCreatesParentDir verifies nested paths work.
func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "deep", "usage.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Expected store creation to succeed, got: %v", err)
	}
	if err := store.Save(testUsage()); err != nil {
		t.Fatalf("Expected save into created directory to succeed, got: %v", err)
	}
}

// TestFileStoreOverwrite verifies a save replaces previous state entirely.
func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("Expected store creation to succeed, got: %v", err)
	}

	if err := store.Save(testUsage()); err != nil {
		t.Fatalf("Expected first save to succeed, got: %v", err)
	}
	small := budget.Usage{"schedule": {{Count: 1, WindowStart: time.Now().UTC()}}}
	if err := store.Save(small); err != nil {
		t.Fatalf("Expected second save to succeed, got: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Expected load to succeed, got: %v", err)
	}
	if len(loaded) != 1 || len(loaded["schedule"]) != 1 {
		t.Errorf("Expected replaced state, got %+v", loaded)
	}
}

func TestNewFileStoreEmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("Expected error for empty path")
	}
}
