package models

// Stage is the named phase of a match. Two disjoint vocabularies exist:
// the knockout vocabulary (group play plus finals) and the
// double-elimination vocabulary. A tournament's format decides which one
// its matches draw from; the two must never be mixed.
type Stage string

// Knockout vocabulary (round-robin and single-elimination formats).
const (
	StageGroup      Stage = "GROUP"
	StageQuarter    Stage = "QUARTER"
	StageSemi       Stage = "SEMI"
	StageFinal      Stage = "FINAL"
	StageThirdPlace Stage = "THIRD_PLACE"
)

// Double-elimination vocabulary. WINNERS_BRACKET and LOSERS_BRACKET rows
// additionally carry a round counted from 1.
const (
	StageOpeningRound    Stage = "OPENING_ROUND"
	StageWinnersBracket  Stage = "WINNERS_BRACKET"
	StageLosersBracket   Stage = "LOSERS_BRACKET"
	StageGrandFinal      Stage = "GRAND_FINAL"
	StageGrandFinalReset Stage = "GRAND_FINAL_RESET"
)

// Match is a single scheduled or played pairing. Stage/Round/GroupID
// classify it for display; goals are only meaningful once Played is set.
type Match struct {
	ID           int     `json:"id" db:"id"`
	TournamentID int     `json:"tournament_id" db:"tournament_id"`
	Stage        Stage   `json:"stage" db:"stage"`
	Round        int     `json:"round" db:"round"`
	GroupID      *int    `json:"group_id,omitempty" db:"group_id"`
	HomeTeamID   int     `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int     `json:"away_team_id" db:"away_team_id"`
	Played       bool    `json:"played" db:"played"`
	HomeGoals    *int    `json:"home_goals,omitempty" db:"home_goals"`
	AwayGoals    *int    `json:"away_goals,omitempty" db:"away_goals"`
	HomeTeamName *string `json:"home_team_name,omitempty" db:"-"`
	AwayTeamName *string `json:"away_team_name,omitempty" db:"-"`
}
