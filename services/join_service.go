package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/masters-arena/arena-server/repositories"
	"github.com/masters-arena/arena-server/session"
)

// JoinTarget is one joinable competition as shown in the passkey
// prompt. The stored passkey itself never leaves the service.
type JoinTarget struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
	HasPasskey bool   `json:"has_passkey"`
}

// JoinService runs the passkey join flow for both lock kinds: list the
// joinable targets, check the typed passkey against the stored one and,
// on success, scope the visitor to the target.
type JoinService interface {
	// List returns every competition of the kind, active or not.
	// Filtering is the prompt's job, not the query's.
	List(ctx context.Context, kind session.Kind) ([]JoinTarget, error)
	// Join verifies the typed passkey and sets the visitor's lock of
	// the matching kind. A target without a stored passkey accepts any
	// input, including the empty string. On mismatch the lock is left
	// untouched.
	Join(ctx context.Context, userID int, kind session.Kind, targetID, typedPasskey string) (*session.Lock, error)
}

type joinService struct {
	tournamentRepo  repositories.TournamentRepository
	leaderboardRepo repositories.LeaderboardRepository
	locks           *session.Manager
}

func NewJoinService(
	tournamentRepo repositories.TournamentRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	locks *session.Manager,
) JoinService {
	return &joinService{
		tournamentRepo:  tournamentRepo,
		leaderboardRepo: leaderboardRepo,
		locks:           locks,
	}
}

func (s *joinService) List(ctx context.Context, kind session.Kind) ([]JoinTarget, error) {
	switch kind {
	case session.KindTournament:
		rows, err := s.tournamentRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tournaments: %w", err)
		}
		targets := make([]JoinTarget, 0, len(rows))
		for _, t := range rows {
			targets = append(targets, JoinTarget{
				ID:         strconv.Itoa(t.ID),
				Name:       t.Name,
				IsActive:   t.IsActive,
				HasPasskey: t.Passkey != nil && *t.Passkey != "",
			})
		}
		return targets, nil

	case session.KindLeaderboard:
		rows, err := s.leaderboardRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list leaderboards: %w", err)
		}
		targets := make([]JoinTarget, 0, len(rows))
		for _, lb := range rows {
			targets = append(targets, JoinTarget{
				ID:         lb.ID,
				Name:       lb.Name,
				IsActive:   lb.IsActive,
				HasPasskey: lb.Passkey != nil && *lb.Passkey != "",
			})
		}
		return targets, nil
	}
	return nil, ErrUnknownLockKind
}

func (s *joinService) Join(ctx context.Context, userID int, kind session.Kind, targetID, typedPasskey string) (*session.Lock, error) {
	name, stored, err := s.resolveTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}

	if !passkeyAccepts(stored, typedPasskey) {
		return nil, ErrPasskeyMismatch
	}

	store, err := s.locks.ForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if err := store.SetLock(kind, targetID, name); err != nil {
		return nil, fmt.Errorf("failed to set %s lock: %w", kind, err)
	}
	return &session.Lock{Kind: kind, ID: targetID, Name: name}, nil
}

func (s *joinService) resolveTarget(ctx context.Context, kind session.Kind, targetID string) (name string, passkey *string, err error) {
	switch kind {
	case session.KindTournament:
		id, convErr := strconv.Atoi(targetID)
		if convErr != nil {
			return "", nil, ErrTournamentNotFound
		}
		t, err := s.tournamentRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return "", nil, ErrTournamentNotFound
			}
			return "", nil, fmt.Errorf("failed to find tournament: %w", err)
		}
		return t.Name, t.Passkey, nil

	case session.KindLeaderboard:
		lb, err := s.leaderboardRepo.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, repositories.ErrLeaderboardNotFound) {
				return "", nil, ErrLeaderboardNotFound
			}
			return "", nil, fmt.Errorf("failed to find leaderboard: %w", err)
		}
		return lb.Name, lb.Passkey, nil
	}
	return "", nil, ErrUnknownLockKind
}

// passkeyAccepts compares the stored passkey against the typed one.
// Strict equality, no trimming or case folding; an absent or empty
// stored passkey accepts any input.
func passkeyAccepts(stored *string, typed string) bool {
	if stored == nil || *stored == "" {
		return true
	}
	return *stored == typed
}
