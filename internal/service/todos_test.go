package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/lunarhome/internal/database"
	"github.com/jask/lunarhome/internal/database/repository"
	"github.com/jask/lunarhome/internal/testdata"
)

func newTodoService(t *testing.T) (*TodoService, *MaintenanceService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	t.Log("migrations applied")

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &TodoService{Todos: repository.NewTodoRepo(db)}, &MaintenanceService{DB: db}
}

func TestAddCompleteRemove(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	svc, _ := newTodoService(t)

	_, err := svc.Add(ctx, "   ")
	require.ErrorIs(t, err, ErrEmptyText)

	a, err := svc.Add(ctx, " water plants ")
	require.NoError(t, err)
	require.Equal(t, "water plants", a.Text)
	b, err := svc.Add(ctx, "renew passport")
	require.NoError(t, err)
	require.Equal(t, a.SortOrder+1, b.SortOrder)

	id, err := svc.Complete(ctx, a.ID[:8])
	require.NoError(t, err)
	require.Equal(t, a.ID, id)

	_, err = svc.Remove(ctx, b.ID)
	require.NoError(t, err)
	_, err = svc.Remove(ctx, b.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	all, err := svc.Todos.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].Done)
}

func TestImportLinesSkipsDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTodoService(t)
	_, err := svc.Add(ctx, "Buy milk")
	require.NoError(t, err)

	data := strings.Join([]string{
		"- buy milk",
		"",
		"book dentist",
		"  Book Dentist  ",
		"- file taxes",
	}, "\n")
	res, err := svc.ImportLines(ctx, strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, ImportResult{Imported: 2, Skipped: 2}, res)

	all, err := svc.Todos.List(ctx)
	require.NoError(t, err)
	texts := make([]string, 0, len(all))
	for _, td := range all {
		texts = append(texts, td.Text)
	}
	require.Equal(t, []string{"Buy milk", "book dentist", "file taxes"}, texts)
}

func TestResetKeepsSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, maint := newTodoService(t)
	_, err := svc.Add(ctx, "one")
	require.NoError(t, err)

	require.NoError(t, maint.Reset(ctx))
	all, err := svc.Todos.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}

func TestImportSkipsSeededOpenTodos(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTodoService(t)
	require.NoError(t, testdata.Seed(ctx, svc.Todos, 12, 7))

	seeded, err := svc.Todos.List(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 12)

	var lines []string
	open := map[string]bool{}
	for _, td := range seeded {
		lines = append(lines, td.Text)
		if !td.Done {
			open[strings.ToLower(td.Text)] = true
		}
	}
	res, err := svc.ImportLines(ctx, strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	require.Equal(t, len(lines), res.Imported+res.Skipped)
	require.GreaterOrEqual(t, res.Skipped, len(open))
}
