package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/lunarhome/internal/database"
)

// MaintenanceService houses destructive actions exposed on the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all todos. It keeps the schema and the seed markers intact so
// the starter todo is not re-created.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM todos"); err != nil {
			return fmt.Errorf("reset table todos: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
