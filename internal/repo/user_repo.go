package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/utils"
)

// UserRepo provides user persistence.
type UserRepo interface {
	// Create stores u. It fails with ErrUserExists when u.Username is taken.
	Create(ctx context.Context, u dom.User) (dom.User, error)
	// GetByUsername returns the user together with its todos.
	GetByUsername(ctx context.Context, username string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *sql.DB
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *sql.DB) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (id, name, username)
		VALUES ($1, $2, $3)
		RETURNING id, name, username`
	var out dom.User
	err := r.db.QueryRowContext(ctx, query, u.ID, u.Name, u.Username).Scan(
		&out.ID, &out.Name, &out.Username,
	)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUserExists
		}
		return dom.User{}, fmt.Errorf("insert user: %w", err)
	}
	out.Todos = []dom.Todo{}
	return out, nil
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, username FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Name, &u.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, fmt.Errorf("select user: %w", err)
	}
	todos, err := listTodos(ctx, r.db, u.ID)
	if err != nil {
		return dom.User{}, err
	}
	u.Todos = todos
	return u, nil
}
