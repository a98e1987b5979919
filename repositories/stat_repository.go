package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/masters-arena/arena-server/models"
)

var (
	ErrStatNotFound         = errors.New("leaderboard entry not found")
	ErrStatUsernameConflict = errors.New("username already on this leaderboard")
)

// StatRepository stores the participant rows of standalone leaderboards.
type StatRepository interface {
	Create(ctx context.Context, stat *models.TournamentStat) error
	// ListByLeaderboard orders by username ascending, matching the
	// admin surface's display order.
	ListByLeaderboard(ctx context.Context, leaderboardID string) ([]models.TournamentStat, error)
	Update(ctx context.Context, stat *models.TournamentStat) error
	Delete(ctx context.Context, id int) error
}

type postgresStatRepository struct {
	db *sql.DB
}

func NewPostgresStatRepository(db *sql.DB) StatRepository {
	return &postgresStatRepository{db: db}
}

func (r *postgresStatRepository) Create(ctx context.Context, s *models.TournamentStat) error {
	query := `
		INSERT INTO tournament_stats (leaderboard_id, username, wins, losses, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		s.LeaderboardID, s.Username, s.Wins, s.Losses, s.Points,
	).Scan(&s.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrStatUsernameConflict
		}
		return err
	}
	return nil
}

func (r *postgresStatRepository) ListByLeaderboard(ctx context.Context, leaderboardID string) ([]models.TournamentStat, error) {
	query := `
		SELECT id, leaderboard_id, username, wins, losses, points
		FROM tournament_stats
		WHERE leaderboard_id = $1
		ORDER BY username ASC`

	rows, err := r.db.QueryContext(ctx, query, leaderboardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.TournamentStat, 0)
	for rows.Next() {
		var s models.TournamentStat
		if scanErr := rows.Scan(
			&s.ID, &s.LeaderboardID, &s.Username, &s.Wins, &s.Losses, &s.Points,
		); scanErr != nil {
			return nil, scanErr
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *postgresStatRepository) Update(ctx context.Context, s *models.TournamentStat) error {
	query := `
		UPDATE tournament_stats SET username = $1, wins = $2, losses = $3, points = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		s.Username, s.Wins, s.Losses, s.Points, s.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrStatUsernameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrStatNotFound)
}

func (r *postgresStatRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournament_stats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStatNotFound)
}
