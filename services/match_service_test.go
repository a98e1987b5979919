package services

import (
	"context"
	"errors"
	"testing"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
)

type fakeTeamRepo struct {
	teams []models.Team
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = len(f.teams) + 1
	f.teams = append(f.teams, *team)
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	for i := range f.teams {
		if f.teams[i].ID == id {
			team := f.teams[i]
			return &team, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	var out []models.Team
	for _, team := range f.teams {
		if team.TournamentID == tournamentID {
			out = append(out, team)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	teams, _ := f.ListByTournament(ctx, tournamentID)
	return len(teams), nil
}

func (f *fakeTeamRepo) UpdateRecord(ctx context.Context, id int, wins, losses, draws int) error {
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams[i].Wins, f.teams[i].Losses, f.teams[i].Draws = wins, losses, draws
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams = append(f.teams[:i], f.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type fakeMatchRepo struct {
	matches []models.Match
}

func (f *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	match.ID = len(f.matches) + 1
	f.matches = append(f.matches, *match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for i := range f.matches {
		if f.matches[i].ID == id {
			m := f.matches[i]
			return &m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateScore(ctx context.Context, id int, homeGoals, awayGoals int) error {
	for i := range f.matches {
		if f.matches[i].ID == id {
			f.matches[i].Played = true
			f.matches[i].HomeGoals = &homeGoals
			f.matches[i].AwayGoals = &awayGoals
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) DeleteByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	kept := f.matches[:0]
	for _, m := range f.matches {
		if m.HomeTeamID != teamID && m.AwayTeamID != teamID {
			kept = append(kept, m)
		}
	}
	f.matches = kept
	return nil
}

func newMatchFixture(format models.Format) (MatchService, *fakeMatchRepo) {
	tournaments := &fakeTournamentRepo{tournaments: []models.Tournament{
		{ID: 1, Name: "Main Event", Format: format, IsActive: true},
	}}
	teams := &fakeTeamRepo{teams: []models.Team{
		{ID: 10, TournamentID: 1, Name: "Alpha", GroupID: 1},
		{ID: 11, TournamentID: 1, Name: "Beta", GroupID: 1},
		{ID: 12, TournamentID: 2, Name: "Outsider", GroupID: 1},
	}}
	matches := &fakeMatchRepo{}
	return NewMatchService(matches, teams, tournaments, nil), matches
}

func TestScheduleEnforcesStageVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		format  models.Format
		stage   models.Stage
		round   int
		wantErr error
	}{
		{"group stage in round robin", models.FormatRoundRobinSingle, models.StageGroup, 0, nil},
		{"final in single elim", models.FormatSingleElimination, models.StageFinal, 0, nil},
		{"winners bracket in round robin", models.FormatRoundRobinSingle, models.StageWinnersBracket, 1, ErrInvalidStage},
		{"group stage in double elim", models.FormatDoubleElimination, models.StageGroup, 0, ErrInvalidStage},
		{"winners bracket in double elim", models.FormatDoubleElimination, models.StageWinnersBracket, 1, nil},
		{"losers bracket without round", models.FormatDoubleElimination, models.StageLosersBracket, 0, ErrInvalidRound},
		{"grand final reset in double elim", models.FormatDoubleElimination, models.StageGrandFinalReset, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newMatchFixture(tt.format)
			_, err := svc.Schedule(context.Background(), 1, ScheduleMatchInput{
				Stage:      tt.stage,
				Round:      tt.round,
				HomeTeamID: 10,
				AwayTeamID: 11,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Schedule: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduleRejectsBadPairings(t *testing.T) {
	svc, _ := newMatchFixture(models.FormatRoundRobinSingle)

	if _, err := svc.Schedule(context.Background(), 1, ScheduleMatchInput{
		Stage: models.StageGroup, HomeTeamID: 10, AwayTeamID: 10,
	}); !errors.Is(err, ErrSameTeam) {
		t.Errorf("same team: got %v", err)
	}

	if _, err := svc.Schedule(context.Background(), 1, ScheduleMatchInput{
		Stage: models.StageGroup, HomeTeamID: 10, AwayTeamID: 12,
	}); !errors.Is(err, ErrTeamNotInTournament) {
		t.Errorf("foreign team: got %v", err)
	}

	bad := 5
	if _, err := svc.Schedule(context.Background(), 1, ScheduleMatchInput{
		Stage: models.StageGroup, GroupID: &bad, HomeTeamID: 10, AwayTeamID: 11,
	}); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("group out of range: got %v", err)
	}
}

func TestScoreRecordsResultOnce(t *testing.T) {
	svc, repo := newMatchFixture(models.FormatSingleElimination)
	match, err := svc.Schedule(context.Background(), 1, ScheduleMatchInput{
		Stage: models.StageFinal, HomeTeamID: 10, AwayTeamID: 11,
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	scored, err := svc.Score(context.Background(), match.ID, ScoreMatchInput{HomeGoals: 2, AwayGoals: 1})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !scored.Played || *scored.HomeGoals != 2 || *scored.AwayGoals != 1 {
		t.Errorf("unexpected scored match %+v", scored)
	}
	if !repo.matches[0].Played {
		t.Errorf("result not persisted")
	}

	if _, err := svc.Score(context.Background(), match.ID, ScoreMatchInput{HomeGoals: 3, AwayGoals: 0}); !errors.Is(err, ErrMatchAlreadyPlayed) {
		t.Errorf("rescore: got %v, want ErrMatchAlreadyPlayed", err)
	}
}

func TestScoreRejectsNegativeGoals(t *testing.T) {
	svc, _ := newMatchFixture(models.FormatSingleElimination)
	if _, err := svc.Score(context.Background(), 1, ScoreMatchInput{HomeGoals: -1, AwayGoals: 0}); !errors.Is(err, ErrNegativeGoals) {
		t.Errorf("got %v, want ErrNegativeGoals", err)
	}
}
