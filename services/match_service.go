package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/masters-arena/arena-server/brackets"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/realtime"
	"github.com/masters-arena/arena-server/repositories"
)

type ScheduleMatchInput struct {
	Stage      models.Stage `json:"stage"`
	Round      int          `json:"round"`
	GroupID    *int         `json:"group_id,omitempty"`
	HomeTeamID int          `json:"home_team_id"`
	AwayTeamID int          `json:"away_team_id"`
}

type ScoreMatchInput struct {
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

// MatchService schedules and scores matches. Scheduling enforces the
// stage vocabulary of the tournament's format; scoring broadcasts the
// result to the tournament's watchers.
type MatchService interface {
	Schedule(ctx context.Context, tournamentID int, input ScheduleMatchInput) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	// ListFiltered narrows a tournament's matches to one stage, and
	// optionally one round or group, preserving stored order.
	ListFiltered(ctx context.Context, tournamentID int, filter brackets.StageFilter) ([]models.Match, error)
	Score(ctx context.Context, matchID int, input ScoreMatchInput) (*models.Match, error)
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	hub            *realtime.Hub
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	hub *realtime.Hub,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
	}
}

func (s *matchService) Schedule(ctx context.Context, tournamentID int, input ScheduleMatchInput) (*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}

	if !brackets.StageAllowed(tournament.Format, input.Stage) {
		return nil, ErrInvalidStage
	}
	// Only bracket stages carry a meaningful round; it counts from 1.
	if input.Stage == models.StageWinnersBracket || input.Stage == models.StageLosersBracket {
		if input.Round < 1 {
			return nil, ErrInvalidRound
		}
	}
	if input.GroupID != nil && (*input.GroupID < 1 || *input.GroupID > 4) {
		return nil, ErrInvalidGroup
	}
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrSameTeam
	}

	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
		if team.TournamentID != tournamentID {
			return nil, ErrTeamNotInTournament
		}
	}

	match := &models.Match{
		TournamentID: tournamentID,
		Stage:        input.Stage,
		Round:        input.Round,
		GroupID:      input.GroupID,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchInvalidTeam) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) ListFiltered(ctx context.Context, tournamentID int, filter brackets.StageFilter) ([]models.Match, error) {
	matches, err := s.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.Classify(matches, filter), nil
}

func (s *matchService) Score(ctx context.Context, matchID int, input ScoreMatchInput) (*models.Match, error) {
	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return nil, ErrNegativeGoals
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	if match.Played {
		return nil, ErrMatchAlreadyPlayed
	}

	if err := s.matchRepo.UpdateScore(ctx, matchID, input.HomeGoals, input.AwayGoals); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to record match result: %w", err)
	}

	match.Played = true
	match.HomeGoals = &input.HomeGoals
	match.AwayGoals = &input.AwayGoals

	if s.hub != nil {
		s.hub.Broadcast(realtime.TournamentRoom(match.TournamentID), realtime.Message{
			Type:    realtime.EventMatchUpdated,
			Payload: match,
		})
	}
	return match, nil
}
