package models

import "time"

// VoteOption is a spectator's predicted outcome for a match.
type VoteOption string

const (
	VoteHome VoteOption = "HOME"
	VoteAway VoteOption = "AWAY"
	VoteDraw VoteOption = "DRAW"
)

func (v VoteOption) Valid() bool {
	switch v {
	case VoteHome, VoteAway, VoteDraw:
		return true
	}
	return false
}

// MatchVote is one spectator prediction. A user may vote at most once
// per match.
type MatchVote struct {
	ID              int        `json:"id" db:"id"`
	MatchID         int        `json:"match_id" db:"match_id"`
	UserID          int        `json:"user_id" db:"user_id"`
	PredictedWinner VoteOption `json:"predicted_winner" db:"predicted_winner"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// VoteTally is the aggregated vote count for one match.
type VoteTally struct {
	MatchID int `json:"match_id"`
	Home    int `json:"home"`
	Away    int `json:"away"`
	Draw    int `json:"draw"`
}
