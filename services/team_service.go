package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
)

// maxTeamsPerTournament caps the bracket size the admin surface can
// produce.
const maxTeamsPerTournament = 16

type AddTeamInput struct {
	Name    string `json:"name"`
	GroupID int    `json:"group_id"`
}

type UpdateTeamRecordInput struct {
	Wins   int `json:"w"`
	Losses int `json:"l"`
	Draws  int `json:"d"`
}

type TeamService interface {
	Add(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	UpdateRecord(ctx context.Context, teamID int, input UpdateTeamRecordInput) error
	// Delete removes the team together with every match it appears in,
	// in one transaction.
	Delete(ctx context.Context, teamID int) error
}

type teamService struct {
	db             *sql.DB
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
) TeamService {
	return &teamService{
		db:             db,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *teamService) Add(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.GroupID < 1 || input.GroupID > 4 {
		return nil, ErrInvalidGroup
	}

	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}

	count, err := s.teamRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count teams: %w", err)
	}
	if count >= maxTeamsPerTournament {
		return nil, ErrTournamentFull
	}

	team := &models.Team{
		TournamentID: tournamentID,
		Name:         input.Name,
		GroupID:      input.GroupID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) UpdateRecord(ctx context.Context, teamID int, input UpdateTeamRecordInput) error {
	if input.Wins < 0 || input.Losses < 0 || input.Draws < 0 {
		return fmt.Errorf("%w: record tallies must not be negative", ErrValidationFailed)
	}
	if err := s.teamRepo.UpdateRecord(ctx, teamID, input.Wins, input.Losses, input.Draws); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to update team record: %w", err)
	}
	return nil
}

func (s *teamService) Delete(ctx context.Context, teamID int) error {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.DeleteByTeam(ctx, tx, teamID); err != nil {
		return fmt.Errorf("failed to delete team matches: %w", err)
	}
	if err := s.teamRepo.Delete(ctx, tx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
