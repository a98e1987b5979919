package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/masters-arena/arena-server/models"
)

var ErrVoteConflict = errors.New("user has already voted on this match")

type VoteRepository interface {
	Create(ctx context.Context, vote *models.MatchVote) error
	GetByMatchAndUser(ctx context.Context, matchID, userID int) (*models.MatchVote, error)
	// Tally aggregates the predictions for one match.
	Tally(ctx context.Context, matchID int) (*models.VoteTally, error)
}

type postgresVoteRepository struct {
	db *sql.DB
}

func NewPostgresVoteRepository(db *sql.DB) VoteRepository {
	return &postgresVoteRepository{db: db}
}

func (r *postgresVoteRepository) Create(ctx context.Context, v *models.MatchVote) error {
	query := `
		INSERT INTO match_votes (match_id, user_id, predicted_winner)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		v.MatchID, v.UserID, v.PredictedWinner,
	).Scan(&v.ID, &v.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrVoteConflict
		}
		return err
	}
	return nil
}

func (r *postgresVoteRepository) GetByMatchAndUser(ctx context.Context, matchID, userID int) (*models.MatchVote, error) {
	query := `
		SELECT id, match_id, user_id, predicted_winner, created_at
		FROM match_votes
		WHERE match_id = $1 AND user_id = $2`

	v := &models.MatchVote{}
	err := r.db.QueryRowContext(ctx, query, matchID, userID).Scan(
		&v.ID, &v.MatchID, &v.UserID, &v.PredictedWinner, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresVoteRepository) Tally(ctx context.Context, matchID int) (*models.VoteTally, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE predicted_winner = 'HOME'),
			COUNT(*) FILTER (WHERE predicted_winner = 'AWAY'),
			COUNT(*) FILTER (WHERE predicted_winner = 'DRAW')
		FROM match_votes
		WHERE match_id = $1`

	tally := &models.VoteTally{MatchID: matchID}
	err := r.db.QueryRowContext(ctx, query, matchID).Scan(&tally.Home, &tally.Away, &tally.Draw)
	if err != nil {
		return nil, err
	}
	return tally, nil
}
