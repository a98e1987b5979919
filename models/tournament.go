package models

import "time"

// Format is the structural type of a tournament. It determines which
// stage vocabulary the tournament's matches may use and, for elimination
// formats, the bracket shape.
type Format string

const (
	FormatRoundRobinSingle  Format = "round_robin_single"
	FormatRoundRobinDouble  Format = "round_robin_double"
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
)

func (f Format) Valid() bool {
	switch f {
	case FormatRoundRobinSingle, FormatRoundRobinDouble,
		FormatSingleElimination, FormatDoubleElimination:
		return true
	}
	return false
}

// Tournament is an organizer-created competition. Passkey is a shared
// secret gating the manager join flow; it is a convenience lock, not a
// credential, and is compared client-side in the original design.
type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Format    Format    `json:"format" db:"format"`
	Passkey   *string   `json:"passkey,omitempty" db:"passkey"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
