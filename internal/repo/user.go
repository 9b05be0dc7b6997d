package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/models"
)

const userColumns = `id, username, email, COALESCE(password_hash, ''), role`

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row interface{ Scan(dest ...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role)
	return u, err
}

// Create inserts a user. passwordHash may be empty for accounts that have
// not set a password yet.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, role string) (models.User, error) {
	var hash any
	if passwordHash != "" {
		hash = passwordHash
	}
	return scanUser(r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		username, email, hash, role,
	))
}

func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, &core.NotFoundError{Entity: "user", ID: id}
	}
	return u, err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// UpdateRole changes a user's role (member or admin).
func (r *UserRepo) UpdateRole(ctx context.Context, id int, role string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users SET role = $1 WHERE id = $2 RETURNING `+userColumns,
		role, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return u, &core.NotFoundError{Entity: "user", ID: id}
	}
	return u, err
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
