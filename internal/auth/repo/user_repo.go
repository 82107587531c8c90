package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/staffdeck/directory-api/internal/auth"
	"github.com/staffdeck/directory-api/internal/auth/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at`

// Create inserts a new user row. A unique_violation on email maps to
// auth.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at)
		VALUES (:id, :email, :first_name, :last_name, :password_hash, :role, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, u); err != nil {
		return translateConflict(err)
	}
	return nil
}

// GetByEmail looks up case-insensitively; auth.ErrUserNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var row entity.User
	if err := r.db.GetContext(ctx, &row, "SELECT "+userColumns+" FROM users WHERE LOWER(email)=LOWER($1)", email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetByID fetches one user row.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var row entity.User
	if err := r.db.GetContext(ctx, &row, "SELECT "+userColumns+" FROM users WHERE id=$1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

// List returns every user row, newest-first.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	rows := []entity.User{}
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC"); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the merged user row by id.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const q = `UPDATE users SET
		email=:email, first_name=:first_name, last_name=:last_name,
		password_hash=:password_hash, role=:role, is_active=:is_active, updated_at=:updated_at
		WHERE id=:id`
	res, err := r.db.NamedExecContext(ctx, q, u)
	if err != nil {
		return translateConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// Delete hard-deletes a user row by id.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return auth.ErrEmailTaken
	}
	return err
}
