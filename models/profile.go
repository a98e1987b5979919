package models

import "time"

// Role is the single role attribute stored on a profile. A profile
// without a role behaves as RoleMember.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleLeaderboard Role = "leaderboard"
	RoleMember      Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeaderboard, RoleMember:
		return true
	}
	return false
}

// Profile is the per-identity record holding display data and the role
// read by the access gate on every protected mount.
type Profile struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     *string   `json:"username,omitempty" db:"username"`
	DisplayName  *string   `json:"display_name,omitempty" db:"display_name"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	AvatarKey    *string   `json:"-" db:"avatar_key"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity is the authenticated subject resolved from a session token.
// It is read-only from the core's perspective.
type Identity struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}
