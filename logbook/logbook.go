// Package logbook reads previously worked CW contacts from the logging
// program's SQLite database and indexes them by band. The index is rebuilt
// wholesale at the start of each render cycle and replaced, never mutated,
// so the renderer needs no lock around it.
package logbook

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Index maps band label to the set of callsigns already worked on that band.
type Index map[string]map[string]struct{}

// Worked reports whether call has been logged on band.
func (i Index) Worked(call, band string) bool {
	calls, ok := i[band]
	if !ok {
		return false
	}
	_, ok = calls[call]
	return ok
}

// Reader re-reads the contact log on demand.
type Reader struct {
	db *sql.DB
}

// Open prepares a reader for the logger database at path. The file is owned
// by the logging program; this reader never writes to it.
func Open(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("logbook: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &Reader{db: db}, nil
}

// Refresh builds a fresh index of worked callsigns per band.
func (r *Reader) Refresh() (Index, error) {
	rows, err := r.db.Query(`SELECT band, callsign FROM contacts WHERE mode = ?`, "CW")
	if err != nil {
		return nil, fmt.Errorf("logbook: query contacts: %w", err)
	}
	defer rows.Close()

	idx := make(Index)
	for rows.Next() {
		var band, call string
		if err := rows.Scan(&band, &call); err != nil {
			return nil, fmt.Errorf("logbook: scan contact: %w", err)
		}
		if idx[band] == nil {
			idx[band] = make(map[string]struct{})
		}
		idx[band][call] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("logbook: query contacts: %w", err)
	}
	return idx, nil
}

// Close closes the underlying database handle.
func (r *Reader) Close() error {
	return r.db.Close()
}
