package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/masters-arena/arena-server/brackets"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
	"golang.org/x/sync/errgroup"
)

// DoubleElimBracket is the assembled double-elimination view of a
// tournament. Shape is derived from the opening round and is nil when
// the opening match count is not a power of two yet.
type DoubleElimBracket struct {
	Opening         []models.Match          `json:"opening"`
	WinnersRounds   []brackets.RoundGroup   `json:"winners_rounds"`
	LosersRounds    []brackets.RoundGroup   `json:"losers_rounds"`
	GrandFinal      []models.Match          `json:"grand_final"`
	GrandFinalReset []models.Match          `json:"grand_final_reset"`
	Shape           []brackets.BracketRound `json:"shape,omitempty"`
}

// GroupSection is one group of a knockout-format tournament.
type GroupSection struct {
	GroupID int            `json:"group_id"`
	Matches []models.Match `json:"matches"`
}

// KnockoutBoard is the assembled group-plus-finals view.
type KnockoutBoard struct {
	Groups     []GroupSection `json:"groups"`
	Quarter    []models.Match `json:"quarter"`
	Semi       []models.Match `json:"semi"`
	Final      []models.Match `json:"final"`
	ThirdPlace []models.Match `json:"third_place"`
}

// TournamentView is everything a bracket page renders in one shot.
// Exactly one of DoubleElim and Knockout is set, per the format.
type TournamentView struct {
	Tournament *models.Tournament `json:"tournament"`
	Teams      []models.Team      `json:"teams"`
	DoubleElim *DoubleElimBracket `json:"double_elim,omitempty"`
	Knockout   *KnockoutBoard     `json:"knockout,omitempty"`
}

type BracketService interface {
	TournamentView(ctx context.Context, tournamentID int) (*TournamentView, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
	}
}

func (s *bracketService) TournamentView(ctx context.Context, tournamentID int) (*TournamentView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}

	var (
		teams   []models.Team
		matches []models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &TournamentView{Tournament: tournament, Teams: teams}
	if tournament.Format == models.FormatDoubleElimination {
		view.DoubleElim = assembleDoubleElim(matches)
	} else {
		view.Knockout = assembleKnockout(matches)
	}
	return view, nil
}

func assembleDoubleElim(matches []models.Match) *DoubleElimBracket {
	b := &DoubleElimBracket{
		Opening:         brackets.Classify(matches, brackets.StageFilter{Stage: models.StageOpeningRound}),
		GrandFinal:      brackets.Classify(matches, brackets.StageFilter{Stage: models.StageGrandFinal}),
		GrandFinalReset: brackets.Classify(matches, brackets.StageFilter{Stage: models.StageGrandFinalReset}),
	}
	b.WinnersRounds = brackets.GroupByRound(
		brackets.Classify(matches, brackets.StageFilter{Stage: models.StageWinnersBracket}))
	b.LosersRounds = brackets.GroupByRound(
		brackets.Classify(matches, brackets.StageFilter{Stage: models.StageLosersBracket}))

	// Shape is advisory while the bracket is still being filled in; an
	// opening round that is not a power of two simply yields no shape.
	if rounds, err := brackets.ComputeRounds(len(b.Opening)); err == nil {
		b.Shape = rounds
	}
	return b
}

func assembleKnockout(matches []models.Match) *KnockoutBoard {
	board := &KnockoutBoard{
		Quarter:    brackets.Classify(matches, brackets.StageFilter{Stage: models.StageQuarter}),
		Semi:       brackets.Classify(matches, brackets.StageFilter{Stage: models.StageSemi}),
		Final:      brackets.Classify(matches, brackets.StageFilter{Stage: models.StageFinal}),
		ThirdPlace: brackets.Classify(matches, brackets.StageFilter{Stage: models.StageThirdPlace}),
	}
	for groupID := 1; groupID <= 4; groupID++ {
		id := groupID
		section := brackets.Classify(matches, brackets.StageFilter{
			Stage:   models.StageGroup,
			GroupID: &id,
		})
		if len(section) > 0 {
			board.Groups = append(board.Groups, GroupSection{GroupID: groupID, Matches: section})
		}
	}
	return board
}
