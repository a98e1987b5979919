package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
	"github.com/masters-arena/arena-server/session"
)

type CreateTournamentInput struct {
	Name    string        `json:"name"`
	Format  models.Format `json:"format"`
	Passkey *string       `json:"passkey,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, createdBy int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	SetActive(ctx context.Context, id int, isActive bool) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	locks          *session.Manager
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, locks *session.Manager) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo, locks: locks}
}

func (s *tournamentService) Create(ctx context.Context, createdBy int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if !input.Format.Valid() {
		return nil, ErrInvalidFormat
	}

	t := &models.Tournament{
		Name:      input.Name,
		Format:    input.Format,
		Passkey:   input.Passkey,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	// Creating a tournament scopes the organizer's session to it right
	// away, the same as joining it by passkey would.
	if store, err := s.locks.ForUser(createdBy); err == nil {
		if err := store.SetLock(session.KindTournament, strconv.Itoa(t.ID), t.Name); err != nil {
			slog.Warn("could not lock session to new tournament", "tournament_id", t.ID, "error", err)
		}
	}
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	rows, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return rows, nil
}

func (s *tournamentService) SetActive(ctx context.Context, id int, isActive bool) error {
	if err := s.tournamentRepo.UpdateActive(ctx, id, isActive); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return nil
}
