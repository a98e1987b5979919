package models

import "time"

// Leaderboard is a standalone ranked competition without bracket
// structure. Participants are TournamentStat rows, not teams.
type Leaderboard struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Passkey   *string   `json:"passkey,omitempty" db:"passkey"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TournamentStat is one participant row on a standalone leaderboard.
type TournamentStat struct {
	ID            int    `json:"id" db:"id"`
	LeaderboardID string `json:"leaderboard_id" db:"leaderboard_id"`
	Username      string `json:"username" db:"username"`
	Wins          int    `json:"wins" db:"wins"`
	Losses        int    `json:"losses" db:"losses"`
	Points        int    `json:"points" db:"points"`
}
