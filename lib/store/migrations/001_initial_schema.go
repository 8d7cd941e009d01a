package migrations

import (
	"database/sql"
)

// GetMigrations returns all available migrations
func GetMigrations() []Migration {
	return []Migration{
		migration001InitialSchema(),
	}
}

// migration001InitialSchema creates the revision log table
func migration001InitialSchema() Migration {
	return Migration{
		Version:     1,
		Description: "Initial schema - create revision log",
		Up: func(db *sql.DB) error {
			var queries = []string{
				`CREATE TABLE IF NOT EXISTS revision (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					revision TEXT NOT NULL UNIQUE,
					rollback_of TEXT,
					version INTEGER NOT NULL,
					payload BLOB NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_revision_rollback_of
					ON revision (rollback_of)`,
			}

			for _, query := range queries {
				if _, err := db.Exec(query); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
