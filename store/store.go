// Package store holds the live spot list in SQLite behind a single lock.
// Three loops share it: ingest upserts, the renderer lists and evicts. Every
// operation runs inside the same mutex so a sweep, an update and a listing
// never interleave. Event rates are low enough that the coarse lock is the
// simplest correct choice.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Row is one live spot as returned by ListByFrequency.
type Row struct {
	ID         int64
	Callsign   string
	Time       time.Time
	FreqKHz    float64
	Band       string
	AgeSeconds int64
}

// Store is the bounded, time-decaying spot collection.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens (or creates) the spots database at path and ensures the schema
// exists. TTL controls the sweep performed on every upsert.
func Open(path string, ttl time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`pragma journal_mode=WAL; pragma synchronous=NORMAL; pragma busy_timeout=5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: pragmas: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

func ensureSchema(db *sql.DB) error {
	// callsign is unique among live rows: a re-spotted station updates its
	// existing record instead of adding a second one, even across bands.
	const schema = `
CREATE TABLE IF NOT EXISTS spots (
	id        INTEGER PRIMARY KEY,
	callsign  TEXT NOT NULL UNIQUE,
	date_time INTEGER NOT NULL,
	frequency REAL NOT NULL,
	band      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spots_date_time ON spots(date_time);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// Upsert sweeps expired records, then inserts a new record for callsign or
// overwrites the frequency, band and timestamp of its existing one.
func (s *Store) Upsert(callsign string, freqKHz float64, band string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.ttl).Unix()
	if _, err := s.db.Exec(`DELETE FROM spots WHERE date_time < ?`, cutoff); err != nil {
		return fmt.Errorf("store: ttl sweep: %w", err)
	}

	_, err := s.db.Exec(`
INSERT INTO spots (callsign, date_time, frequency, band) VALUES (?, ?, ?, ?)
ON CONFLICT(callsign) DO UPDATE SET
	date_time = excluded.date_time,
	frequency = excluded.frequency,
	band      = excluded.band`,
		callsign, now.Unix(), freqKHz, band)
	if err != nil {
		return fmt.Errorf("store: upsert %s: %w", callsign, err)
	}
	return nil
}

// ListByFrequency returns every live record in ascending frequency order,
// with ages computed against the current time.
func (s *Store) ListByFrequency() ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, callsign, date_time, frequency, band FROM spots ORDER BY frequency ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	now := s.now()
	var out []Row
	for rows.Next() {
		var r Row
		var unix int64
		if err := rows.Scan(&r.ID, &r.Callsign, &unix, &r.FreqKHz, &r.Band); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		r.Time = time.Unix(unix, 0)
		r.AgeSeconds = now.Unix() - unix
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

// EvictOldest removes the single record with the smallest timestamp across
// the whole store, regardless of band. Called by the renderer once per row
// that would overflow the display.
func (s *Store) EvictOldest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
DELETE FROM spots WHERE id = (
	SELECT id FROM spots ORDER BY date_time ASC, id ASC LIMIT 1
)`)
	if err != nil {
		return fmt.Errorf("store: evict oldest: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
