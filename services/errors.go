package services

import "errors"

// Errors shared across services and mapped to HTTP statuses in one
// place by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidFormat       = errors.New("unknown tournament format")
	ErrInvalidStage        = errors.New("stage is not valid for this tournament's format")
	ErrInvalidRound        = errors.New("round must be a positive integer for bracket stages")
	ErrInvalidGroup        = errors.New("group must be between 1 and 4")
	ErrSameTeam            = errors.New("a team cannot play itself")
	ErrNegativeGoals       = errors.New("goals must not be negative")
	ErrInvalidVoteOption   = errors.New("predicted winner must be HOME, AWAY or DRAW")
	ErrTournamentFull      = errors.New("tournament team capacity reached")
	ErrUnknownLockKind     = errors.New("unknown session lock kind")
	ErrMatchAlreadyPlayed  = errors.New("match result has already been recorded")
	ErrTeamNotInTournament = errors.New("team does not belong to this tournament")

	// Conflicts
	ErrEmailConflict    = errors.New("email address is already in use")
	ErrNameConflict     = errors.New("name is already in use")
	ErrAlreadyVoted     = errors.New("you have already voted on this match")
	ErrUsernameConflict = errors.New("username is already on this leaderboard")

	// Authentication and access
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	// ErrPasskeyMismatch is surfaced as a blocking failure; the lock is
	// never set on mismatch.
	ErrPasskeyMismatch = errors.New("incorrect passkey")

	// Entity-specific not-found errors
	ErrProfileNotFound     = errors.New("profile not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrLeaderboardNotFound = errors.New("leaderboard not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrStatNotFound        = errors.New("leaderboard entry not found")
)
