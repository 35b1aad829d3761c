package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// resetTables empties the given tables and restarts their identity counters.
// PostgreSQL does it in one TRUNCATE; SQLite needs its sequence rows removed.
func resetTables(ctx context.Context, db *gorm.DB, tables ...string) error {
	db = db.WithContext(ctx)

	if db.Dialector.Name() != "sqlite" {
		stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", strings.Join(tables, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", strings.Join(tables, ", "), err)
		}
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
			if err := tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error; err != nil {
				return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
			}
		}
		return nil
	})
}
