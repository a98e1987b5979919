package access

import (
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/session"
)

// AdminView is one of the mutually exclusive management views served
// from the shared admin surface.
type AdminView int

const (
	// ViewSelection lets the visitor create or join a tournament or
	// leaderboard; also shown when no other view applies.
	ViewSelection AdminView = iota
	// ViewTournamentAdmin manages the tournament the visitor's lock
	// points at.
	ViewTournamentAdmin
	// ViewLeaderboardAdmin manages a standalone leaderboard, scoped to
	// the leaderboard lock when one is present.
	ViewLeaderboardAdmin
)

func (v AdminView) String() string {
	switch v {
	case ViewTournamentAdmin:
		return "tournament_admin"
	case ViewLeaderboardAdmin:
		return "leaderboard_admin"
	default:
		return "selection"
	}
}

// Decide picks the admin view from the visitor's role and lock state.
//
// Lock presence takes priority over role for tournament admins: a lock
// is an explicit, previously verified scope the visitor chose, and role
// alone cannot pick one tournament once several coexist. This ordering
// is a product decision.
func Decide(role models.Role, tournamentLock, leaderboardLock bool) AdminView {
	switch {
	case role == models.RoleAdmin && tournamentLock:
		return ViewTournamentAdmin
	case role == models.RoleAdmin:
		return ViewSelection
	case role == models.RoleLeaderboard:
		return ViewLeaderboardAdmin
	default:
		return ViewSelection
	}
}

// AdminRouter evaluates Decide against a visitor's session store each
// time the guarded identity/role becomes available.
type AdminRouter struct {
	Locks *session.Manager
}

// Route resolves the visitor's lock state and picks the view. Lock
// reads that fail degrade to "no lock": the selection view is always a
// safe landing.
func (rt *AdminRouter) Route(identity models.Identity, role models.Role) (AdminView, *session.Lock, *session.Lock) {
	var tLock, lLock *session.Lock

	store, err := rt.Locks.ForUser(identity.UserID)
	if err == nil {
		tLock, _ = store.GetLock(session.KindTournament)
		lLock, _ = store.GetLock(session.KindLeaderboard)
	}

	return Decide(role, tLock != nil, lLock != nil), tLock, lLock
}
