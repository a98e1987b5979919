package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/masters-arena/arena-server/models"
)

var (
	ErrLeaderboardNotFound     = errors.New("leaderboard not found")
	ErrLeaderboardNameConflict = errors.New("leaderboard name conflict")
)

type LeaderboardRepository interface {
	Create(ctx context.Context, lb *models.Leaderboard) error
	GetByID(ctx context.Context, id string) (*models.Leaderboard, error)
	List(ctx context.Context) ([]models.Leaderboard, error)
	UpdateActive(ctx context.Context, id string, isActive bool) error
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) Create(ctx context.Context, lb *models.Leaderboard) error {
	// Leaderboard ids are UUIDs minted by the database.
	query := `
		INSERT INTO leaderboard (name, passkey, is_active, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		lb.Name, lb.Passkey, lb.IsActive, lb.CreatedBy,
	).Scan(&lb.ID, &lb.CreatedAt)

	return r.handleLeaderboardError(err)
}

func (r *postgresLeaderboardRepository) GetByID(ctx context.Context, id string) (*models.Leaderboard, error) {
	query := `
		SELECT id, name, passkey, is_active, created_by, created_at
		FROM leaderboard
		WHERE id = $1`

	lb := &models.Leaderboard{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lb.ID, &lb.Name, &lb.Passkey, &lb.IsActive, &lb.CreatedBy, &lb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaderboardNotFound
		}
		return nil, err
	}
	return lb, nil
}

func (r *postgresLeaderboardRepository) List(ctx context.Context) ([]models.Leaderboard, error) {
	query := `
		SELECT id, name, passkey, is_active, created_by, created_at
		FROM leaderboard
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := make([]models.Leaderboard, 0)
	for rows.Next() {
		var lb models.Leaderboard
		if scanErr := rows.Scan(
			&lb.ID, &lb.Name, &lb.Passkey, &lb.IsActive, &lb.CreatedBy, &lb.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		boards = append(boards, lb)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *postgresLeaderboardRepository) UpdateActive(ctx context.Context, id string, isActive bool) error {
	query := `UPDATE leaderboard SET is_active = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, isActive, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeaderboardNotFound)
}

func (r *postgresLeaderboardRepository) handleLeaderboardError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" {
			return ErrLeaderboardNameConflict
		}
	}
	return err
}
