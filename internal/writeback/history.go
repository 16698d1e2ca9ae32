package writeback

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/microcopy/api"
)

// Snapshot is one recorded feed.
type Snapshot struct {
	ID        int64
	Version   string
	Locale    string
	CreatedAt time.Time
	Bytes     int
}

// HistorySink appends every feed to a SQLite database.
type HistorySink struct {
	db  *sql.DB
	now func() time.Time
}

// OpenHistory opens (or creates) the history database at dbPath.
func OpenHistory(dbPath string) (*HistorySink, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Writes arrive from concurrent dispatches; serialize them.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version TEXT NOT NULL,
		locale TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		content TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_locale ON snapshots(locale, id);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &HistorySink{db: db, now: time.Now}, nil
}

func (s *HistorySink) Name() string { return "history" }

func (s *HistorySink) Write(ctx context.Context, feed api.Feed) error {
	content, err := json.Marshal(feed.Content)
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (version, locale, created_at, content) VALUES (?, ?, ?, ?)`,
		feed.Version, feed.Locale, s.now().UnixMilli(), string(content),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// List returns the most recent snapshots, newest first. An empty locale
// matches every locale; limit <= 0 means no limit.
func (s *HistorySink) List(ctx context.Context, locale string, limit int) ([]Snapshot, error) {
	query := `SELECT id, version, locale, created_at, length(CAST(content AS BLOB)) FROM snapshots`
	var args []any
	if locale != "" {
		query += ` WHERE locale = ?`
		args = append(args, locale)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			created int64
		)
		if err := rows.Scan(&snap.ID, &snap.Version, &snap.Locale, &created, &snap.Bytes); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt = time.UnixMilli(created)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Content returns the feed stored in snapshot id.
func (s *HistorySink) Content(ctx context.Context, id int64) (api.Content, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM snapshots WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %d: %w", id, err)
	}
	var content api.Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", id, err)
	}
	return content, nil
}

// Close closes the database.
func (s *HistorySink) Close() error {
	return s.db.Close()
}
