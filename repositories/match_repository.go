package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/masters-arena/arena-server/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchInvalidTeam = errors.New("invalid team reference")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByTournament returns the tournament's matches with team names
	// resolved, newest first.
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateScore(ctx context.Context, id int, homeGoals, awayGoals int) error
	DeleteByTeam(ctx context.Context, exec SQLExecutor, teamID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, stage, round, group_id, home_team_id, away_team_id, played)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		m.TournamentID, m.Stage, m.Round, m.GroupID, m.HomeTeamID, m.AwayTeamID, m.Played,
	).Scan(&m.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchInvalidTeam
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, stage, round, group_id, home_team_id, away_team_id,
		       played, home_goals, away_goals
		FROM matches
		WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.Round, &m.GroupID,
		&m.HomeTeamID, &m.AwayTeamID, &m.Played, &m.HomeGoals, &m.AwayGoals,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.stage, m.round, m.group_id,
		       m.home_team_id, m.away_team_id, m.played, m.home_goals, m.away_goals,
		       h.name, a.name
		FROM matches m
		JOIN teams h ON h.id = m.home_team_id
		JOIN teams a ON a.id = m.away_team_id
		WHERE m.tournament_id = $1
		ORDER BY m.id DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.TournamentID, &m.Stage, &m.Round, &m.GroupID,
			&m.HomeTeamID, &m.AwayTeamID, &m.Played, &m.HomeGoals, &m.AwayGoals,
			&m.HomeTeamName, &m.AwayTeamName,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, id int, homeGoals, awayGoals int) error {
	query := `
		UPDATE matches SET home_goals = $1, away_goals = $2, played = TRUE
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, homeGoals, awayGoals, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTeam(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`DELETE FROM matches WHERE home_team_id = $1 OR away_team_id = $1`, teamID)
	return err
}
