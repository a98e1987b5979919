// Package session manages the two persisted "active target" locks that
// scope a visitor's admin surface to one tournament and/or one
// leaderboard. Lock presence is the sole input the admin router uses to
// decide whether a visitor is currently scoped, independent of role.
package session

import (
	"encoding/json"
	"fmt"
)

// Kind names one of the two independent lock slots. A tournament lock
// and a leaderboard lock may coexist; at most one lock per kind is
// active at a time.
type Kind string

const (
	KindTournament  Kind = "tournament"
	KindLeaderboard Kind = "leaderboard"
)

func (k Kind) Valid() bool {
	return k == KindTournament || k == KindLeaderboard
}

// storageKey is the persisted key for the slot. The on-disk names and
// the {id, name} value shape are a compatibility contract and must
// round-trip exactly.
func (k Kind) storageKey() string {
	if k == KindLeaderboard {
		return "active_leaderboard"
	}
	return "active_tournament"
}

// Lock is an active scope marker. Kind is implied by the slot and
// attached on read; only ID and Name are persisted.
type Lock struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type lockRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store exposes the lock slots. All operations are total: reading an
// absent slot yields (nil, nil), clearing an absent slot succeeds.
type Store interface {
	GetLock(kind Kind) (*Lock, error)
	SetLock(kind Kind, targetID, targetName string) error
	ClearLock(kind Kind) error
}

// ReloadFunc is invoked after a successful ClearLock. Clearing forces a
// full reload of the visitor's current view rather than a soft update,
// so every consumer re-derives its state from scratch.
type ReloadFunc func()

type lockStore struct {
	kv     KV
	reload ReloadFunc
}

// NewStore builds a Store over the given key/value area. reload may be
// nil when no consumer needs the forced-reload signal (tests).
func NewStore(kv KV, reload ReloadFunc) Store {
	return &lockStore{kv: kv, reload: reload}
}

func (s *lockStore) GetLock(kind Kind) (*Lock, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown lock kind %q", kind)
	}
	raw, ok, err := s.kv.Get(kind.storageKey())
	if err != nil {
		return nil, fmt.Errorf("read lock %s: %w", kind, err)
	}
	if !ok {
		return nil, nil
	}
	var rec lockRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode lock %s: %w", kind, err)
	}
	return &Lock{Kind: kind, ID: rec.ID, Name: rec.Name}, nil
}

func (s *lockStore) SetLock(kind Kind, targetID, targetName string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown lock kind %q", kind)
	}
	raw, err := json.Marshal(lockRecord{ID: targetID, Name: targetName})
	if err != nil {
		return fmt.Errorf("encode lock %s: %w", kind, err)
	}
	if err := s.kv.Set(kind.storageKey(), raw); err != nil {
		return fmt.Errorf("write lock %s: %w", kind, err)
	}
	return nil
}

func (s *lockStore) ClearLock(kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown lock kind %q", kind)
	}
	if err := s.kv.Delete(kind.storageKey()); err != nil {
		return fmt.Errorf("clear lock %s: %w", kind, err)
	}
	if s.reload != nil {
		s.reload()
	}
	return nil
}
