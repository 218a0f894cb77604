package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/utils"
)

// TodoRepo provides access to the todos of a single user.
// Every method fails with ErrTodoNotFound when id does not name one of
// userID's todos.
type TodoRepo interface {
	List(ctx context.Context, userID uuid.UUID) ([]dom.Todo, error)
	Create(ctx context.Context, userID uuid.UUID, t dom.Todo) (dom.Todo, error)
	Update(ctx context.Context, userID, id uuid.UUID, title string, deadline time.Time) (dom.Todo, error)
	MarkDone(ctx context.Context, userID, id uuid.UUID) (dom.Todo, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

const todoColumns = `id, title, done, deadline, created_at`

type PGTodoRepo struct {
	db *sql.DB
}

func NewPGTodoRepo(db *sql.DB) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) List(ctx context.Context, userID uuid.UUID) ([]dom.Todo, error) {
	return listTodos(ctx, r.db, userID)
}

func (r *PGTodoRepo) Create(ctx context.Context, userID uuid.UUID, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (id, user_id, title, done, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + todoColumns
	out, err := scanTodo(r.db.QueryRowContext(ctx, query,
		t.ID, userID, t.Title, t.Done, t.Deadline, t.CreatedAt))
	if err != nil {
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Todo{}, ErrUserNotFound
		}
		return dom.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return out, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, userID, id uuid.UUID, title string, deadline time.Time) (dom.Todo, error) {
	query := `
		UPDATE todos SET title = $3, deadline = $4
		WHERE user_id = $1 AND id = $2
		RETURNING ` + todoColumns
	return r.returning(ctx, "update todo", query, userID, id, title, deadline)
}

func (r *PGTodoRepo) MarkDone(ctx context.Context, userID, id uuid.UUID) (dom.Todo, error) {
	query := `
		UPDATE todos SET done = TRUE
		WHERE user_id = $1 AND id = $2
		RETURNING ` + todoColumns
	return r.returning(ctx, "mark todo done", query, userID, id)
}

func (r *PGTodoRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *PGTodoRepo) returning(ctx context.Context, op, query string, args ...any) (dom.Todo, error) {
	t, err := scanTodo(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Todo{}, ErrTodoNotFound
		}
		return dom.Todo{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// listTodos returns userID's todos in insertion order.
func listTodos(ctx context.Context, db *sql.DB, userID uuid.UUID) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY seq`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()
	list := []dom.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(&t.ID, &t.Title, &t.Done, &t.Deadline, &t.CreatedAt)
	if err != nil {
		return dom.Todo{}, err
	}
	t.Deadline = t.Deadline.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
