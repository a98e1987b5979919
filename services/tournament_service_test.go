package services

import (
	"context"
	"errors"
	"testing"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
	"github.com/masters-arena/arena-server/session"
)

type fakeStatRepo struct {
	stats []models.TournamentStat
}

func (f *fakeStatRepo) Create(ctx context.Context, stat *models.TournamentStat) error {
	stat.ID = len(f.stats) + 1
	f.stats = append(f.stats, *stat)
	return nil
}

func (f *fakeStatRepo) ListByLeaderboard(ctx context.Context, leaderboardID string) ([]models.TournamentStat, error) {
	var out []models.TournamentStat
	for _, s := range f.stats {
		if s.LeaderboardID == leaderboardID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStatRepo) Update(ctx context.Context, stat *models.TournamentStat) error {
	for i := range f.stats {
		if f.stats[i].ID == stat.ID {
			f.stats[i].Wins = stat.Wins
			f.stats[i].Losses = stat.Losses
			f.stats[i].Points = stat.Points
			return nil
		}
	}
	return repositories.ErrStatNotFound
}

func (f *fakeStatRepo) Delete(ctx context.Context, id int) error {
	for i := range f.stats {
		if f.stats[i].ID == id {
			f.stats = append(f.stats[:i], f.stats[i+1:]...)
			return nil
		}
	}
	return repositories.ErrStatNotFound
}

func TestCreateTournamentValidation(t *testing.T) {
	locks := session.NewManager(t.TempDir(), nil)
	svc := NewTournamentService(&fakeTournamentRepo{}, locks)

	tests := []struct {
		name    string
		input   CreateTournamentInput
		wantErr error
	}{
		{"missing name", CreateTournamentInput{Format: models.FormatSingleElimination}, ErrNameRequired},
		{"unknown format", CreateTournamentInput{Name: "Cup", Format: "ladder"}, ErrInvalidFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), 1, tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreateTournamentScopesOrganizerSession(t *testing.T) {
	locks := session.NewManager(t.TempDir(), nil)
	svc := NewTournamentService(&fakeTournamentRepo{}, locks)

	created, err := svc.Create(context.Background(), 42, CreateTournamentInput{
		Name:   "Autumn Open",
		Format: models.FormatDoubleElimination,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created.IsActive {
		t.Error("new tournament should start active")
	}

	store, err := locks.ForUser(42)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	lock, err := store.GetLock(session.KindTournament)
	if err != nil {
		t.Fatalf("GetLock() error = %v", err)
	}
	if lock == nil {
		t.Fatal("creating a tournament should lock the organizer's session to it")
	}
	if lock.ID != "1" || lock.Name != "Autumn Open" {
		t.Errorf("lock = %+v, want id 1 name Autumn Open", lock)
	}
}

func TestCreateLeaderboardScopesCreatorSession(t *testing.T) {
	locks := session.NewManager(t.TempDir(), nil)
	svc := NewLeaderboardService(&fakeLeaderboardRepo{}, &fakeStatRepo{}, locks)

	created, err := svc.Create(context.Background(), 42, CreateLeaderboardInput{Name: "Season Ladder"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store, err := locks.ForUser(42)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	lock, err := store.GetLock(session.KindLeaderboard)
	if err != nil {
		t.Fatalf("GetLock() error = %v", err)
	}
	if lock == nil {
		t.Fatal("creating a leaderboard should lock the creator's session to it")
	}
	if lock.ID != created.ID || lock.Name != "Season Ladder" {
		t.Errorf("lock = %+v, want id %s name Season Ladder", lock, created.ID)
	}
}
