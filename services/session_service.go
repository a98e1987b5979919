package services

import (
	"context"
	"fmt"

	"github.com/masters-arena/arena-server/session"
)

// SessionService exposes a visitor's two lock slots to the transport
// layer.
type SessionService interface {
	Locks(ctx context.Context, userID int) (tournament, leaderboard *session.Lock, err error)
	// ClearLock removes the slot and fires the visitor's reload hook.
	// Clearing an already-empty slot succeeds.
	ClearLock(ctx context.Context, userID int, kind session.Kind) error
}

type sessionService struct {
	locks *session.Manager
}

func NewSessionService(locks *session.Manager) SessionService {
	return &sessionService{locks: locks}
}

func (s *sessionService) Locks(ctx context.Context, userID int) (*session.Lock, *session.Lock, error) {
	store, err := s.locks.ForUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	tournament, err := store.GetLock(session.KindTournament)
	if err != nil {
		return nil, nil, err
	}
	leaderboard, err := store.GetLock(session.KindLeaderboard)
	if err != nil {
		return nil, nil, err
	}
	return tournament, leaderboard, nil
}

func (s *sessionService) ClearLock(ctx context.Context, userID int, kind session.Kind) error {
	if !kind.Valid() {
		return ErrUnknownLockKind
	}
	store, err := s.locks.ForUser(userID)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	return store.ClearLock(kind)
}
