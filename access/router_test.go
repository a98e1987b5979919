package access

import (
	"testing"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name            string
		role            models.Role
		tournamentLock  bool
		leaderboardLock bool
		want            AdminView
	}{
		{"admin with tournament lock", models.RoleAdmin, true, false, ViewTournamentAdmin},
		{"admin with both locks still gets tournament view", models.RoleAdmin, true, true, ViewTournamentAdmin},
		{"admin without lock", models.RoleAdmin, false, false, ViewSelection},
		{"admin with only leaderboard lock", models.RoleAdmin, false, true, ViewSelection},
		{"leaderboard role unscoped", models.RoleLeaderboard, false, false, ViewLeaderboardAdmin},
		{"leaderboard role with lock", models.RoleLeaderboard, false, true, ViewLeaderboardAdmin},
		{"member without locks", models.RoleMember, false, false, ViewSelection},
		{"member with tournament lock", models.RoleMember, true, false, ViewSelection},
		{"unknown role", models.Role("guest"), true, true, ViewSelection},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.role, tc.tournamentLock, tc.leaderboardLock)
			if got != tc.want {
				t.Errorf("Decide(%s, %v, %v) = %s, want %s",
					tc.role, tc.tournamentLock, tc.leaderboardLock, got, tc.want)
			}
		})
	}
}

func TestRouteReadsVisitorLocks(t *testing.T) {
	locks := session.NewManager(t.TempDir(), nil)
	rt := &AdminRouter{Locks: locks}
	identity := models.Identity{UserID: 3}

	view, tLock, _ := rt.Route(identity, models.RoleAdmin)
	if view != ViewSelection || tLock != nil {
		t.Fatalf("unlocked admin: view = %s, lock = %+v, want selection with no lock", view, tLock)
	}

	store, err := locks.ForUser(identity.UserID)
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if err := store.SetLock(session.KindTournament, "7", "Cup"); err != nil {
		t.Fatalf("SetLock: %v", err)
	}

	view, tLock, _ = rt.Route(identity, models.RoleAdmin)
	if view != ViewTournamentAdmin {
		t.Errorf("locked admin: view = %s, want tournament_admin", view)
	}
	if tLock == nil || tLock.ID != "7" || tLock.Name != "Cup" {
		t.Errorf("lock = %+v, want {7 Cup}", tLock)
	}
}
