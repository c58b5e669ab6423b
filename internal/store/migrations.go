package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per game, finished when the window closes
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			steering TEXT NOT NULL CHECK(steering IN ('follow', 'flee')),
			screen_width INTEGER NOT NULL,
			screen_height INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			skipped_frames INTEGER NOT NULL DEFAULT 0,
			hand_ticks INTEGER NOT NULL DEFAULT 0
		)`,

		// Telemetry windows recorded during a session
		`CREATE TABLE IF NOT EXISTS session_windows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			window_index INTEGER NOT NULL,
			mean_speed REAL NOT NULL,
			stddev_speed REAL NOT NULL,
			hand_ratio REAL NOT NULL,
			skipped_frames INTEGER NOT NULL,
			mean_tick_ms REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_session_windows_session_id ON session_windows(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
