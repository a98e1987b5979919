package models

// Team is a tournament participant. W/L/D tallies are maintained by the
// organizer through the admin surface.
type Team struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	GroupID      int    `json:"group_id" db:"group_id"`
	Wins         int    `json:"w" db:"w"`
	Losses       int    `json:"l" db:"l"`
	Draws        int    `json:"d" db:"d"`
}
