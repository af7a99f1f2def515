package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("todo not found")

// ErrAmbiguous is returned when an id prefix matches more than one row.
var ErrAmbiguous = errors.New("todo id prefix is ambiguous")

// TodoRepo handles todos.
type TodoRepo struct {
	db *sql.DB
}

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{db: db} }

func (r *TodoRepo) Insert(ctx context.Context, t Todo) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO todos(id, text, done, sort_order, created_at, updated_at)
	VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, t.ID, t.Text, t.Done, t.SortOrder)
	return err
}

// NextSortOrder returns the sort order that places a new row last.
func (r *TodoRepo) NextSortOrder(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), -1) + 1 FROM todos`).Scan(&next)
	return next, err
}

// List returns every todo in display order.
func (r *TodoRepo) List(ctx context.Context) ([]Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, text, done, sort_order, created_at, updated_at
	FROM todos ORDER BY sort_order, created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Todo
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Done, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetAll is the read contract the home screen consumes.
func (r *TodoRepo) GetAll(ctx context.Context) ([]Todo, error) {
	return r.List(ctx)
}

// Resolve expands a unique id prefix to a full id.
func (r *TodoRepo) Resolve(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM todos WHERE id LIKE ? LIMIT 2`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", ErrAmbiguous
	}
}

func (r *TodoRepo) SetDone(ctx context.Context, id string, done bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE todos SET done = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, done, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TodoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClearDone removes completed todos and reports how many were deleted.
func (r *TodoRepo) ClearDone(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE done = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
