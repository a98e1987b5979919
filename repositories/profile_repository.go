package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/masters-arena/arena-server/models"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileEmailConflict = errors.New("email is already registered")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// GetRole reads only the role column; absent profiles and profiles
	// without a role both surface as ErrProfileNotFound so callers can
	// apply the member default.
	GetRole(ctx context.Context, id int) (models.Role, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (email, username, display_name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Email, p.Username, p.DisplayName, p.Role, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)

	return r.handleProfileError(err)
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `
		SELECT id, email, username, display_name, role, password_hash, avatar_key, created_at
		FROM profiles
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, email, username, display_name, role, password_hash, avatar_key, created_at
		FROM profiles
		WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresProfileRepository) GetRole(ctx context.Context, id int) (models.Role, error) {
	query := `SELECT role FROM profiles WHERE id = $1`

	var role sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	if !role.Valid || role.String == "" {
		return "", ErrProfileNotFound
	}
	return models.Role(role.String), nil
}

func (r *postgresProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles SET
			username = $1,
			display_name = $2,
			role = $3,
			password_hash = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		p.Username, p.DisplayName, p.Role, p.PasswordHash, p.ID)
	if err != nil {
		return r.handleProfileError(err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	query := `UPDATE profiles SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) scanOne(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.Username, &p.DisplayName, &p.Role,
		&p.PasswordHash, &p.AvatarKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresProfileRepository) handleProfileError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" {
			return ErrProfileEmailConflict
		}
	}
	return err
}
