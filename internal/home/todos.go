package home

import (
	"context"
	"log/slog"

	"github.com/jask/lunarhome/internal/database/repository"
)

// TodoStore is the read side of the to-do store.
type TodoStore interface {
	GetAll(ctx context.Context) ([]repository.Todo, error)
}

// ListSink displays the to-do list. SetItems replaces whatever it showed.
type ListSink interface {
	SetItems(items []repository.Todo)
}

// TodoBridge rebinds the list sink from the store on every refresh.
type TodoBridge struct {
	store  TodoStore
	logger *slog.Logger
}

func NewTodoBridge(store TodoStore, logger *slog.Logger) *TodoBridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TodoBridge{store: store, logger: logger}
}

// Refresh never fails: an unreachable store shows up as an empty list.
func (b *TodoBridge) Refresh(ctx context.Context, sink ListSink) {
	if sink == nil {
		return
	}
	items, err := b.fetch(ctx)
	if err != nil {
		b.logger.Warn("todo refresh failed, showing empty list", "error", err)
		items = []repository.Todo{}
	}
	if items == nil {
		items = []repository.Todo{}
	}
	sink.SetItems(items)
}

func (b *TodoBridge) fetch(ctx context.Context) ([]repository.Todo, error) {
	if b.store == nil {
		return nil, errNoStore
	}
	return b.store.GetAll(ctx)
}
