package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - persisted tuning and calibration as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Events table - log of fired gesture triggers
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			hand TEXT NOT NULL CHECK(hand IN ('Left', 'Right')),
			finger TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL CHECK(kind IN ('pinch', 'fist', 'dwell')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
