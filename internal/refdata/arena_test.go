package refdata

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func openTestArena(t *testing.T) *Arena {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "refdata.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open arena: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// TestArena_SeedsOnFirstOpen tests that a fresh file carries the baseline set
func TestArena_SeedsOnFirstOpen(t *testing.T) {
	a := openTestArena(t)

	if a.Version() != baselineVersion {
		t.Errorf("Expected baseline version, got %q", a.Version())
	}

	q, ok := a.Queue(450)
	if !ok {
		t.Fatal("Expected queue 450 in baseline data")
	}
	if q.Description != "ARAM" {
		t.Errorf("Expected ARAM description, got %q", q.Description)
	}

	c, ok := a.Champion("Ahri")
	if !ok {
		t.Fatal("Expected Ahri in baseline data")
	}
	if c.ID != 103 {
		t.Errorf("Expected champion id 103, got %d", c.ID)
	}
}

// TestArena_InvalidateClearsEverything tests the explicit invalidation path
func TestArena_InvalidateClearsEverything(t *testing.T) {
	a := openTestArena(t)

	if err := a.Invalidate(); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	if a.Version() != "" {
		t.Errorf("Expected empty version after invalidation, got %q", a.Version())
	}
	if _, ok := a.Queue(420); ok {
		t.Error("Expected no queue rows after invalidation")
	}
	if _, ok := a.Champion("Ahri"); ok {
		t.Error("Expected no champion rows after invalidation")
	}
}

// TestArena_ReloadReplacesVersion tests a reload under a new version key
func TestArena_ReloadReplacesVersion(t *testing.T) {
	a := openTestArena(t)

	err := a.Reload("14.2.1",
		[]QueueInfo{{QueueID: 420, Map: "Summoner's Rift", Description: "Ranked Solo/Duo"}},
		[]ChampionInfo{{ID: 1, Name: "Annie", DamageType: "AP"}})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if a.Version() != "14.2.1" {
		t.Errorf("Expected new version, got %q", a.Version())
	}
	if _, ok := a.Champion("Ahri"); ok {
		t.Error("Old rows must not survive a reload")
	}
	if _, ok := a.Champion("Annie"); !ok {
		t.Error("New rows must be visible after reload")
	}
}

// TestArena_UnknownLookups tests miss behavior
func TestArena_UnknownLookups(t *testing.T) {
	a := openTestArena(t)

	if _, ok := a.Queue(9999); ok {
		t.Error("Expected miss for unknown queue")
	}
	if _, ok := a.Champion("NotAChampion"); ok {
		t.Error("Expected miss for unknown champion")
	}
}
