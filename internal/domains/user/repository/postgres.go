package repository

import (
	"context"
	"errors"

	"inventory-backend/internal/domains/user/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository backed by Postgres.
func NewUserRepository(db *pgxpool.Pool) RepositoryInterface {
	return &userRepository{db: db}
}

const userColumns = `id, username, full_name, role, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.PasswordHash,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.IsActive = true
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, full_name, role, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`,
		user.ID, user.Username, user.FullName, user.Role, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return apperr.FromPg(err, "user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", id.String())
		}
		return nil, apperr.FromPg(err, "user")
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username) = LOWER($1)", username), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user", username)
		}
		return nil, apperr.FromPg(err, "user")
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, apperr.FromPg(err, "user")
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, apperr.FromPg(err, "user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "user")
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET full_name = $2, role = $3, password_hash = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1`,
		user.ID, user.FullName, user.Role, user.PasswordHash, user.IsActive)
	if err != nil {
		return apperr.FromPg(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user", user.ID.String())
	}
	return nil
}
