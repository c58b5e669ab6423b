package store

import "database/sql"

// Window is one telemetry window stored against a session.
type Window struct {
	SessionID     string  `json:"-"`
	Index         int     `json:"index"`
	MeanSpeed     float64 `json:"mean_speed"`
	StdDevSpeed   float64 `json:"stddev_speed"`
	HandRatio     float64 `json:"hand_ratio"`
	SkippedFrames int     `json:"skipped_frames"`
	MeanTickMs    float64 `json:"mean_tick_ms"`
}

// WindowRepository stores telemetry windows.
type WindowRepository struct {
	db *sql.DB
}

// Windows returns the window repository for this store.
func (s *Store) Windows() *WindowRepository {
	return &WindowRepository{db: s.db}
}

// Add stores a window. The session must exist.
func (r *WindowRepository) Add(w Window) error {
	_, err := r.db.Exec(
		`INSERT INTO session_windows
		 (session_id, window_index, mean_speed, stddev_speed, hand_ratio, skipped_frames, mean_tick_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.SessionID, w.Index, w.MeanSpeed, w.StdDevSpeed, w.HandRatio, w.SkippedFrames, w.MeanTickMs,
	)
	return err
}

// ListBySession returns a session's windows in order.
func (r *WindowRepository) ListBySession(sessionID string) ([]Window, error) {
	rows, err := r.db.Query(
		`SELECT session_id, window_index, mean_speed, stddev_speed, hand_ratio, skipped_frames, mean_tick_ms
		 FROM session_windows WHERE session_id = ? ORDER BY window_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.SessionID, &w.Index, &w.MeanSpeed, &w.StdDevSpeed,
			&w.HandRatio, &w.SkippedFrames, &w.MeanTickMs); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}

	return windows, rows.Err()
}
