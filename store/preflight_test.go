package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPreflightMissingFileIsHealthy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spots.db")
	if err := Preflight(path, time.Second); err != nil {
		t.Fatalf("Preflight on missing file: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("preflight should not create the database")
	}
}

func TestPreflightHealthyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spots.db")
	s, err := Open(path, time.Minute)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Upsert("N0CALL", 7030, "40"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	s.Close()

	if err := Preflight(path, 2*time.Second); err != nil {
		t.Fatalf("Preflight on healthy db: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("healthy db should remain in place: %v", err)
	}
}

func TestPreflightQuarantinesGarbageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spots.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite file, not even close"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Preflight(path, 2*time.Second); err != nil {
		t.Fatalf("Preflight: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("damaged db should have been moved aside")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range entries {
		if strings.Contains(e.Name(), ".bad-") {
			found = true
		}
	}
	if !found {
		t.Fatal("no quarantine file written")
	}
}

func TestPreflightEmptyPath(t *testing.T) {
	if err := Preflight("  ", time.Second); err == nil {
		t.Fatal("expected error for empty path")
	}
}
