// Package store is the credential store: durable user records keyed by a
// unique normalized email.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/authapi/internal/common"
	"github.com/vaughan-dsouza/authapi/internal/models"
)

// UserStore reads and writes the users table. Queries are written with '?'
// placeholders and rebound for the connection's driver.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, role, created_at`

// FindByEmail returns common.ErrNotFound when no user has the email. The
// email is expected to be normalized already.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

// Create inserts u and fills in its id. The uniqueness check and the write
// are one statement: if the email is already present nothing is inserted,
// no row comes back, and the result is common.ErrEmailTaken.
//
// CreatedAt is cut to microseconds before the write, the finest precision
// Postgres keeps, so the returned record matches what later reads return.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	createdAt := u.CreatedAt.UTC().Truncate(time.Microsecond)

	query := s.db.Rebind(`
		INSERT INTO users (username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`)

	err := s.db.QueryRowxContext(ctx, query,
		u.Username, u.Email, u.Password, string(u.Role), createdAt).Scan(&u.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.CreatedAt = createdAt
	return u, nil
}

// List returns every user in ascending id order from a single statement.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}
