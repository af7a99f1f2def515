package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// StarterTodoID is the stable id of the todo seeded into new databases.
var StarterTodoID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("todo:starter")).String()

// SeedDefaults gives a brand new database a starter todo explaining how to
// add more. It is idempotent and safe to run on every startup; once the
// user deletes the starter it stays deleted.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	var seeded int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_seeds WHERE name = 'starter'`).Scan(&seeded); err != nil {
		return err
	}
	if seeded > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO todos(id, text, done, sort_order) VALUES(?, ?, 0, 0)`,
			StarterTodoID, "add todos with: lunarhome add <text>"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO schema_seeds(name) VALUES('starter')`)
		return err
	})
}
