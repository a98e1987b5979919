package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSetThenGetRoundTrip(t *testing.T) {
	store := NewStore(NewMemoryKV(), nil)

	if err := store.SetLock(KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock: %v", err)
	}
	lock, err := store.GetLock(KindTournament)
	if err != nil {
		t.Fatalf("GetLock: %v", err)
	}
	if lock == nil {
		t.Fatal("GetLock returned nil after SetLock")
	}
	if lock.Kind != KindTournament || lock.ID != "7" || lock.Name != "Cup" {
		t.Errorf("lock = %+v, want {tournament 7 Cup}", lock)
	}
}

func TestGetAbsentLockIsNil(t *testing.T) {
	store := NewStore(NewMemoryKV(), nil)
	lock, err := store.GetLock(KindLeaderboard)
	if err != nil {
		t.Fatalf("GetLock on empty store: %v", err)
	}
	if lock != nil {
		t.Errorf("GetLock on empty store = %+v, want nil", lock)
	}
}

func TestClearLockRemovesAndFiresReload(t *testing.T) {
	reloads := 0
	store := NewStore(NewMemoryKV(), func() { reloads++ })

	if err := store.SetLock(KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock: %v", err)
	}
	if err := store.ClearLock(KindTournament); err != nil {
		t.Fatalf("ClearLock: %v", err)
	}
	lock, err := store.GetLock(KindTournament)
	if err != nil {
		t.Fatalf("GetLock after clear: %v", err)
	}
	if lock != nil {
		t.Errorf("lock after clear = %+v, want nil", lock)
	}
	if reloads != 1 {
		t.Errorf("reload fired %d times, want 1", reloads)
	}

	// Clearing an absent slot is total and still reloads.
	if err := store.ClearLock(KindTournament); err != nil {
		t.Fatalf("ClearLock on absent slot: %v", err)
	}
}

func TestSetLockOverwrites(t *testing.T) {
	store := NewStore(NewMemoryKV(), nil)
	if err := store.SetLock(KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock: %v", err)
	}
	if err := store.SetLock(KindTournament, "9", "League"); err != nil {
		t.Fatalf("SetLock overwrite: %v", err)
	}
	lock, _ := store.GetLock(KindTournament)
	if lock == nil || lock.ID != "9" || lock.Name != "League" {
		t.Errorf("lock = %+v, want overwritten {9 League}", lock)
	}
}

func TestLockSlotsAreIndependent(t *testing.T) {
	store := NewStore(NewMemoryKV(), nil)
	if err := store.SetLock(KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock tournament: %v", err)
	}
	if err := store.SetLock(KindLeaderboard, "lb-1", "Season"); err != nil {
		t.Fatalf("SetLock leaderboard: %v", err)
	}
	if err := store.ClearLock(KindTournament); err != nil {
		t.Fatalf("ClearLock tournament: %v", err)
	}
	lb, _ := store.GetLock(KindLeaderboard)
	if lb == nil || lb.ID != "lb-1" {
		t.Errorf("leaderboard lock = %+v, want untouched {lb-1 Season}", lb)
	}
}

// The persisted format is a compatibility contract: key
// "active_tournament" holding {"id":...,"name":...}.
func TestFileStorePersistedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locks.json")

	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	store := NewStore(kv, nil)
	if err := store.SetLock(KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var data map[string]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode store file: %v", err)
	}
	rec, ok := data["active_tournament"]
	if !ok {
		t.Fatalf("store file %s lacks active_tournament key", raw)
	}
	if rec.ID != "7" || rec.Name != "Cup" {
		t.Errorf("persisted record = %+v, want {7 Cup}", rec)
	}

	// A fresh KV over the same file must reproduce the lock exactly.
	kv2, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV reopen: %v", err)
	}
	lock, err := NewStore(kv2, nil).GetLock(KindTournament)
	if err != nil {
		t.Fatalf("GetLock after reopen: %v", err)
	}
	if lock == nil || lock.ID != "7" || lock.Name != "Cup" {
		t.Errorf("reopened lock = %+v, want {7 Cup}", lock)
	}
}

func TestManagerIsolatesVisitors(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	a, err := m.ForUser(1)
	if err != nil {
		t.Fatalf("ForUser(1): %v", err)
	}
	b, err := m.ForUser(2)
	if err != nil {
		t.Fatalf("ForUser(2): %v", err)
	}

	if err := a.SetLock(KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock: %v", err)
	}
	lock, err := b.GetLock(KindTournament)
	if err != nil {
		t.Fatalf("GetLock: %v", err)
	}
	if lock != nil {
		t.Errorf("visitor 2 sees visitor 1's lock: %+v", lock)
	}
}
