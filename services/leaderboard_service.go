package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
	"github.com/masters-arena/arena-server/session"
)

type CreateLeaderboardInput struct {
	Name    string  `json:"name"`
	Passkey *string `json:"passkey,omitempty"`
}

type UpdateStatInput struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Points int `json:"points"`
}

// LeaderboardService manages standalone leaderboards and their
// participant rows. Rows are plain usernames with tallies; they are not
// linked to profiles.
type LeaderboardService interface {
	Create(ctx context.Context, createdBy int, input CreateLeaderboardInput) (*models.Leaderboard, error)
	GetByID(ctx context.Context, id string) (*models.Leaderboard, error)
	List(ctx context.Context) ([]models.Leaderboard, error)
	SetActive(ctx context.Context, id string, isActive bool) error

	AddStat(ctx context.Context, leaderboardID, username string) (*models.TournamentStat, error)
	ListStats(ctx context.Context, leaderboardID string) ([]models.TournamentStat, error)
	UpdateStat(ctx context.Context, statID int, input UpdateStatInput) error
	DeleteStat(ctx context.Context, statID int) error
}

type leaderboardService struct {
	leaderboardRepo repositories.LeaderboardRepository
	statRepo        repositories.StatRepository
	locks           *session.Manager
}

func NewLeaderboardService(
	leaderboardRepo repositories.LeaderboardRepository,
	statRepo repositories.StatRepository,
	locks *session.Manager,
) LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		statRepo:        statRepo,
		locks:           locks,
	}
}

func (s *leaderboardService) Create(ctx context.Context, createdBy int, input CreateLeaderboardInput) (*models.Leaderboard, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	lb := &models.Leaderboard{
		Name:      input.Name,
		Passkey:   input.Passkey,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if err := s.leaderboardRepo.Create(ctx, lb); err != nil {
		if errors.Is(err, repositories.ErrLeaderboardNameConflict) {
			return nil, ErrNameConflict
		}
		return nil, fmt.Errorf("failed to create leaderboard: %w", err)
	}

	// The creator's session gets scoped to the new board immediately,
	// mirroring the passkey join flow.
	if store, err := s.locks.ForUser(createdBy); err == nil {
		if err := store.SetLock(session.KindLeaderboard, lb.ID, lb.Name); err != nil {
			slog.Warn("could not lock session to new leaderboard", "leaderboard_id", lb.ID, "error", err)
		}
	}
	return lb, nil
}

func (s *leaderboardService) GetByID(ctx context.Context, id string) (*models.Leaderboard, error) {
	lb, err := s.leaderboardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeaderboardNotFound) {
			return nil, ErrLeaderboardNotFound
		}
		return nil, fmt.Errorf("failed to find leaderboard: %w", err)
	}
	return lb, nil
}

func (s *leaderboardService) List(ctx context.Context) ([]models.Leaderboard, error) {
	rows, err := s.leaderboardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboards: %w", err)
	}
	return rows, nil
}

func (s *leaderboardService) SetActive(ctx context.Context, id string, isActive bool) error {
	if err := s.leaderboardRepo.UpdateActive(ctx, id, isActive); err != nil {
		if errors.Is(err, repositories.ErrLeaderboardNotFound) {
			return ErrLeaderboardNotFound
		}
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}
	return nil
}

func (s *leaderboardService) AddStat(ctx context.Context, leaderboardID, username string) (*models.TournamentStat, error) {
	if username == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.GetByID(ctx, leaderboardID); err != nil {
		return nil, err
	}

	stat := &models.TournamentStat{
		LeaderboardID: leaderboardID,
		Username:      username,
	}
	if err := s.statRepo.Create(ctx, stat); err != nil {
		if errors.Is(err, repositories.ErrStatUsernameConflict) {
			return nil, ErrUsernameConflict
		}
		return nil, fmt.Errorf("failed to create leaderboard entry: %w", err)
	}
	return stat, nil
}

func (s *leaderboardService) ListStats(ctx context.Context, leaderboardID string) ([]models.TournamentStat, error) {
	rows, err := s.statRepo.ListByLeaderboard(ctx, leaderboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard entries: %w", err)
	}
	return rows, nil
}

func (s *leaderboardService) UpdateStat(ctx context.Context, statID int, input UpdateStatInput) error {
	if input.Wins < 0 || input.Losses < 0 || input.Points < 0 {
		return fmt.Errorf("%w: tallies must not be negative", ErrValidationFailed)
	}

	stat := &models.TournamentStat{
		ID:     statID,
		Wins:   input.Wins,
		Losses: input.Losses,
		Points: input.Points,
	}
	if err := s.statRepo.Update(ctx, stat); err != nil {
		if errors.Is(err, repositories.ErrStatNotFound) {
			return ErrStatNotFound
		}
		return fmt.Errorf("failed to update leaderboard entry: %w", err)
	}
	return nil
}

func (s *leaderboardService) DeleteStat(ctx context.Context, statID int) error {
	if err := s.statRepo.Delete(ctx, statID); err != nil {
		if errors.Is(err, repositories.ErrStatNotFound) {
			return ErrStatNotFound
		}
		return fmt.Errorf("failed to delete leaderboard entry: %w", err)
	}
	return nil
}
