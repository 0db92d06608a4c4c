package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - key/value application settings, values are JSON
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Selections table - model parts picked in the viewer
		`CREATE TABLE IF NOT EXISTS selections (
			id TEXT PRIMARY KEY,
			part_name TEXT NOT NULL,
			display_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			selected_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_selections_selected_at ON selections(selected_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
