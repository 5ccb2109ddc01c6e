package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"baldr/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; exports are reproducible, so old catalogs are simply deleted.
const schemaVersion = 1

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	lockRetryDelay          = 50 * time.Millisecond
)

var (
	// ErrSchemaMismatch indicates a catalog written by another schema version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLocked reports that another export holds the catalog lock.
	ErrLocked = errors.New("catalog locked by another export")
)

// Store is the SQLite export catalog.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open creates or opens the catalog at cfg.Paths.CatalogPath.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := strings.TrimSpace(cfg.Paths.CatalogPath)
	if dbPath == "" {
		return nil, errors.New("catalog path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: catalog has version %d, expected %d (delete %s and export again)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Replace swaps the catalog contents for snapshot. It waits for the export
// lock until ctx ends.
func (s *Store) Replace(ctx context.Context, snapshot Snapshot) error {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrLocked, ctx.Err())
		}
		return fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()

	return retryOnBusy(ctx, func() error { return s.replace(ctx, snapshot) })
}

func (s *Store) replace(ctx context.Context, snapshot Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM samples"); err != nil {
		return fmt.Errorf("clear samples: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assets"); err != nil {
		return fmt.Errorf("clear assets: %w", err)
	}

	exportedAt := snapshot.GeneratedAt.UTC().Format(time.RFC3339Nano)
	for _, a := range snapshot.Assets {
		_, err := tx.ExecContext(ctx, `INSERT INTO assets (
			ref, uuid, kind, extension, path, http_url, title, artist, year,
			multi_part_count, shortcut, preview_url, waveform_url, exported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Ref, a.UUID, a.Kind, a.Extension, a.Path, a.HTTPURL, a.Title, a.Artist, a.Year,
			a.MultiPartCount, a.Shortcut, a.PreviewURL, a.WaveformURL, exportedAt,
		)
		if err != nil {
			return fmt.Errorf("insert asset %s: %w", a.Ref, err)
		}
		for pos, sample := range a.Samples {
			_, err := tx.ExecContext(ctx, `INSERT INTO samples (
				ref, asset_ref, position, name, title, start_time, duration, fade_in, fade_out, shortcut
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sample.Ref, a.Ref, pos, sample.Name, sample.Title, sample.StartTime,
				sample.Duration, sample.FadeIn, sample.FadeOut, sample.Shortcut,
			)
			if err != nil {
				return fmt.Errorf("insert sample %s: %w", sample.Ref, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

// List returns the exported assets ordered by ref, samples in declaration
// order.
func (s *Store) List(ctx context.Context) ([]AssetRecord, error) {
	var out []AssetRecord
	err := retryOnBusy(ctx, func() error {
		records, err := s.list(ctx)
		out = records
		return err
	})
	return out, err
}

func (s *Store) list(ctx context.Context) ([]AssetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		ref, uuid, kind, extension, path, http_url, title, artist, year,
		multi_part_count, shortcut, preview_url, waveform_url
		FROM assets ORDER BY ref`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	var records []AssetRecord
	index := make(map[string]int)
	for rows.Next() {
		var a AssetRecord
		if err := rows.Scan(&a.Ref, &a.UUID, &a.Kind, &a.Extension, &a.Path, &a.HTTPURL, &a.Title,
			&a.Artist, &a.Year, &a.MultiPartCount, &a.Shortcut, &a.PreviewURL, &a.WaveformURL); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		index[a.Ref] = len(records)
		records = append(records, a)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sampleRows, err := s.db.QueryContext(ctx, `SELECT
		asset_ref, ref, name, title, start_time, duration, fade_in, fade_out, shortcut
		FROM samples ORDER BY asset_ref, position`)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer sampleRows.Close()
	for sampleRows.Next() {
		var (
			assetRef string
			sample   SampleRecord
		)
		if err := sampleRows.Scan(&assetRef, &sample.Ref, &sample.Name, &sample.Title, &sample.StartTime,
			&sample.Duration, &sample.FadeIn, &sample.FadeOut, &sample.Shortcut); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if i, ok := index[assetRef]; ok {
			records[i].Samples = append(records[i].Samples, sample)
		}
	}
	return records, sampleRows.Err()
}

// Counts returns the number of exported assets and samples.
func (s *Store) Counts(ctx context.Context) (assets, samples int, err error) {
	err = retryOnBusy(ctx, func() error {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM assets").Scan(&assets); err != nil {
			return err
		}
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM samples").Scan(&samples)
	})
	return assets, samples, err
}
