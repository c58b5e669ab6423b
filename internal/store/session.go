package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// Session is one run of the game.
type Session struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at,omitzero"` // zero while running
	Steering      string    `json:"steering"`
	ScreenWidth   int       `json:"screen_width"`
	ScreenHeight  int       `json:"screen_height"`
	Ticks         int64     `json:"ticks"`
	SkippedFrames int64     `json:"skipped_frames"`
	HandTicks     int64     `json:"hand_ticks"`
}

// Totals are the counters written when a session ends.
type Totals struct {
	Ticks         int64
	SkippedFrames int64
	HandTicks     int64
}

// Finished reports whether the session has ended.
func (s *Session) Finished() bool {
	return !s.EndedAt.IsZero()
}

// Duration returns how long the session ran, or has run so far.
func (s *Session) Duration() time.Duration {
	if s.Finished() {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session, filling in its ID and start time.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	sess.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, steering, screen_width, screen_height)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Steering, sess.ScreenWidth, sess.ScreenHeight,
	)
	return err
}

// Finish stamps the end time and final counters.
func (r *SessionRepository) Finish(id string, totals Totals) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, ticks = ?, skipped_frames = ?, hand_ticks = ?
		 WHERE id = ?`,
		time.Now(), totals.Ticks, totals.SkippedFrames, totals.HandTicks, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

const sessionColumns = `id, started_at, ended_at, steering, screen_width, screen_height,
	ticks, skipped_frames, hand_ticks`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := row.Scan(&sess.ID, &sess.StartedAt, &ended, &sess.Steering,
		&sess.ScreenWidth, &sess.ScreenHeight,
		&sess.Ticks, &sess.SkippedFrames, &sess.HandTicks)
	if err != nil {
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = ended.Time
	}
	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns the most recent sessions first. A limit of zero or less uses
// DefaultListLimit.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and its telemetry windows.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
