package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Preflight runs a bounded WAL checkpoint plus quick_check on the spots
// database before the main open path. When the file is damaged it is renamed
// (with its WAL/SHM sidecars) to a timestamped quarantine path so startup can
// continue with a fresh store; a missing file is healthy by definition.
func Preflight(path string, timeout time.Duration) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("store: preflight: empty path")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("store: preflight open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	checkErr := check(ctx, db)
	db.Close()

	if checkErr == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("store: preflight timed out after %s", timeout)
	}

	quarantined, err := quarantine(path)
	if err != nil {
		return fmt.Errorf("store: quarantine failed: %w (check: %v)", err, checkErr)
	}
	log.Printf("Store: spots db failed preflight (%v); quarantined to %s", checkErr, quarantined)
	return nil
}

func check(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("pragma busy_timeout=%d", 2000)); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "pragma wal_checkpoint(TRUNCATE)"); err != nil {
		return err
	}
	rows, err := db.QueryContext(ctx, "pragma quick_check")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return err
		}
		if strings.TrimSpace(status) != "ok" {
			return fmt.Errorf("quick_check reported %q", status)
		}
	}
	return rows.Err()
}

func quarantine(path string) (string, error) {
	ts := time.Now().UTC().Format("20060102T150405Z")
	dest := fmt.Sprintf("%s.bad-%s", path, ts)
	for _, sidecar := range []string{"", "-wal", "-shm", "-journal"} {
		src := path + sidecar
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, filepath.Clean(dest+sidecar)); err != nil {
			return "", err
		}
	}
	return dest, nil
}
