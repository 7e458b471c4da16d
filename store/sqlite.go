// Package store persists reading progress and reveal history in SQLite
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no progress row exists for a song
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS progress (
	song       TEXT PRIMARY KEY,
	image      INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS reveals (
	id          TEXT PRIMARY KEY,
	session     TEXT NOT NULL,
	song        TEXT NOT NULL,
	image       INTEGER NOT NULL,
	coverage    REAL NOT NULL,
	marks       INTEGER NOT NULL,
	forced      INTEGER NOT NULL,
	elapsed_ns  INTEGER NOT NULL,
	at          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS reveals_at ON reveals(at DESC);
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// Progress is the last image reached for a song
type Progress struct {
	Song      string
	Index     int
	UpdatedAt time.Time
}

// Reveal is one completed image transition
type Reveal struct {
	ID       string
	Session  string
	Song     string
	Index    int
	Coverage float64
	Marks    int
	Forced   bool
	Elapsed  time.Duration
	At       time.Time
}

// SQLite is the progress and history store
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Option configures a store
type Option func(*SQLite)

// WithLogger sets the store logger
func WithLogger(log *slog.Logger) Option {
	return func(s *SQLite) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces the wall clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *SQLite) { s.now = now }
}

// Open opens or creates the database at path and ensures the schema
func Open(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &SQLite{db: db, log: slog.New(slog.DiscardHandler), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug("store ready", "path", path)
	return s, nil
}

func (s *SQLite) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: schema: %w", err)
	}
	return nil
}

// SaveProgress upserts the image index reached for song
func (s *SQLite) SaveProgress(ctx context.Context, song string, index int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (song, image, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(song) DO UPDATE SET image = excluded.image, updated_at = excluded.updated_at`,
		song, index, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("store: save progress %q: %w", song, err)
	}
	return nil
}

// LoadProgress returns the saved index for song or ErrNotFound
func (s *SQLite) LoadProgress(ctx context.Context, song string) (Progress, error) {
	var (
		p  = Progress{Song: song}
		at int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT image, updated_at FROM progress WHERE song = ?`, song).Scan(&p.Index, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{}, fmt.Errorf("%w: progress for %q", ErrNotFound, song)
	}
	if err != nil {
		return Progress{}, fmt.Errorf("store: load progress %q: %w", song, err)
	}
	p.UpdatedAt = time.Unix(0, at)
	return p, nil
}

// RecordReveal appends a history row, assigning ID and At when unset
func (s *SQLite) RecordReveal(ctx context.Context, r Reveal) (Reveal, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.At.IsZero() {
		r.At = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reveals (id, session, song, image, coverage, marks, forced, elapsed_ns, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Session, r.Song, r.Index, r.Coverage, r.Marks, r.Forced, int64(r.Elapsed), r.At.UnixNano())
	if err != nil {
		return Reveal{}, fmt.Errorf("store: record reveal: %w", err)
	}
	return r, nil
}

// History returns up to limit reveals, newest first; limit <= 0 returns all
func (s *SQLite) History(ctx context.Context, limit int) ([]Reveal, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session, song, image, coverage, marks, forced, elapsed_ns, at
		FROM reveals ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	defer rows.Close()

	var out []Reveal
	for rows.Next() {
		var (
			r           Reveal
			elapsed, at int64
		)
		if err := rows.Scan(&r.ID, &r.Session, &r.Song, &r.Index, &r.Coverage, &r.Marks, &r.Forced, &elapsed, &at); err != nil {
			return nil, fmt.Errorf("store: scan reveal: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		r.At = time.Unix(0, at)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	return out, nil
}

// Close releases the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
