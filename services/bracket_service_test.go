package services

import (
	"context"
	"errors"
	"testing"

	"github.com/masters-arena/arena-server/models"
)

func TestTournamentViewDoubleElimSections(t *testing.T) {
	tournaments := &fakeTournamentRepo{tournaments: []models.Tournament{
		{ID: 1, Name: "DE Open", Format: models.FormatDoubleElimination},
	}}
	teams := &fakeTeamRepo{}
	matches := &fakeMatchRepo{}
	for i := 0; i < 4; i++ {
		matches.Create(context.Background(), &models.Match{
			TournamentID: 1, Stage: models.StageOpeningRound,
			HomeTeamID: 100 + i, AwayTeamID: 200 + i,
		})
	}
	matches.Create(context.Background(), &models.Match{
		TournamentID: 1, Stage: models.StageWinnersBracket, Round: 2, HomeTeamID: 1, AwayTeamID: 2,
	})
	matches.Create(context.Background(), &models.Match{
		TournamentID: 1, Stage: models.StageWinnersBracket, Round: 1, HomeTeamID: 3, AwayTeamID: 4,
	})
	matches.Create(context.Background(), &models.Match{
		TournamentID: 1, Stage: models.StageGrandFinal, HomeTeamID: 5, AwayTeamID: 6,
	})

	svc := NewBracketService(tournaments, teams, matches)
	view, err := svc.TournamentView(context.Background(), 1)
	if err != nil {
		t.Fatalf("TournamentView: %v", err)
	}
	if view.Knockout != nil || view.DoubleElim == nil {
		t.Fatalf("expected double-elim view, got %+v", view)
	}

	b := view.DoubleElim
	if len(b.Opening) != 4 {
		t.Errorf("opening: got %d matches", len(b.Opening))
	}
	if len(b.WinnersRounds) != 2 || b.WinnersRounds[0].Round != 1 || b.WinnersRounds[1].Round != 2 {
		t.Errorf("winners rounds out of order: %+v", b.WinnersRounds)
	}
	if len(b.GrandFinal) != 1 || len(b.GrandFinalReset) != 0 {
		t.Errorf("finals wrong: %+v", b)
	}
	// 4 opening matches leave two rounds to play: 2 matches, then 1.
	if len(b.Shape) != 2 || b.Shape[0].MatchCount != 2 || b.Shape[1].MatchCount != 1 {
		t.Errorf("unexpected shape %+v", b.Shape)
	}
	if b.Shape[0].RoundIndex != 1 || b.Shape[1].RoundIndex != 2 {
		t.Errorf("unexpected round indexes %+v", b.Shape)
	}
}

func TestTournamentViewKnockoutGroups(t *testing.T) {
	tournaments := &fakeTournamentRepo{tournaments: []models.Tournament{
		{ID: 1, Name: "Groups Cup", Format: models.FormatRoundRobinSingle},
	}}
	teams := &fakeTeamRepo{}
	matches := &fakeMatchRepo{}
	g1, g3 := 1, 3
	matches.Create(context.Background(), &models.Match{TournamentID: 1, Stage: models.StageGroup, GroupID: &g3, HomeTeamID: 1, AwayTeamID: 2})
	matches.Create(context.Background(), &models.Match{TournamentID: 1, Stage: models.StageGroup, GroupID: &g1, HomeTeamID: 3, AwayTeamID: 4})
	matches.Create(context.Background(), &models.Match{TournamentID: 1, Stage: models.StageSemi, HomeTeamID: 1, AwayTeamID: 3})

	svc := NewBracketService(tournaments, teams, matches)
	view, err := svc.TournamentView(context.Background(), 1)
	if err != nil {
		t.Fatalf("TournamentView: %v", err)
	}
	if view.DoubleElim != nil || view.Knockout == nil {
		t.Fatalf("expected knockout view, got %+v", view)
	}

	board := view.Knockout
	if len(board.Groups) != 2 || board.Groups[0].GroupID != 1 || board.Groups[1].GroupID != 3 {
		t.Errorf("groups wrong: %+v", board.Groups)
	}
	if len(board.Semi) != 1 || len(board.Final) != 0 {
		t.Errorf("finals sections wrong: %+v", board)
	}
	// Shape only applies to double elimination; an empty bracket view
	// for an unknown tournament errors instead.
	if _, err := svc.TournamentView(context.Background(), 99); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("unknown tournament: got %v", err)
	}
}
