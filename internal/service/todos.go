package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/lunarhome/internal/database/repository"
)

// ErrEmptyText is returned when a todo would have no text.
var ErrEmptyText = errors.New("todo text is empty")

// TodoService is the write side of the todo store, used by the CLI.
type TodoService struct {
	Todos *repository.TodoRepo
}

type ImportResult struct {
	Imported int
	Skipped  int
}

// Add appends a todo at the end of the list.
func (s *TodoService) Add(ctx context.Context, text string) (repository.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return repository.Todo{}, ErrEmptyText
	}
	order, err := s.Todos.NextSortOrder(ctx)
	if err != nil {
		return repository.Todo{}, fmt.Errorf("next sort order: %w", err)
	}
	t := repository.Todo{ID: uuid.NewString(), Text: text, SortOrder: order}
	if err := s.Todos.Insert(ctx, t); err != nil {
		return repository.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

// Complete marks the todo matching an id prefix as done.
func (s *TodoService) Complete(ctx context.Context, prefix string) (string, error) {
	id, err := s.Todos.Resolve(ctx, prefix)
	if err != nil {
		return "", err
	}
	return id, s.Todos.SetDone(ctx, id, true)
}

// Remove deletes the todo matching an id prefix.
func (s *TodoService) Remove(ctx context.Context, prefix string) (string, error) {
	id, err := s.Todos.Resolve(ctx, prefix)
	if err != nil {
		return "", err
	}
	return id, s.Todos.Delete(ctx, id)
}

// ImportLines adds one todo per non-blank line. Lines matching an open
// todo (case-insensitively) or repeated within the input are skipped.
func (s *TodoService) ImportLines(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	existing, err := s.Todos.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list todos: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		if !t.Done {
			seen[strings.ToLower(t.Text)] = true
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sc.Text()), "- "))
		if line == "" {
			continue
		}
		k := strings.ToLower(line)
		if seen[k] {
			res.Skipped++
			continue
		}
		if _, err := s.Add(ctx, line); err != nil {
			return res, err
		}
		seen[k] = true
		res.Imported++
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read todos: %w", err)
	}
	return res, nil
}
