// Package history keeps a SQLite ledger of dump runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mabhi256/jsadump/internal/dumper"
)

// FileName is the ledger file inside a working directory's logs directory.
const FileName = "history.db"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	finished_at  TEXT,
	state        TEXT NOT NULL,
	error        TEXT,
	dir          TEXT NOT NULL,
	archive      TEXT,
	command_json TEXT
);

CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// Run is a ledger row.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in flight or was killed
	State      string
	Err        string
	Dir        string
	Archive    string
	Command    []string
}

// Duration is zero for unfinished runs.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

var _ dumper.Recorder = (*Store)(nil)

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Path returns the ledger location of a working directory.
func Path(dir string) string {
	return filepath.Join(dir, "logs", FileName)
}

// OpenDir opens the ledger of a working directory.
func OpenDir(dir string) (*Store, error) {
	return Open(Path(dir))
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunStarted(ctx context.Context, rec dumper.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, state, dir) VALUES (?, ?, ?, ?)`,
		rec.ID, formatTime(rec.StartedAt), rec.State.String(), rec.Dir,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *Store) RunFinished(ctx context.Context, rec dumper.Record) error {
	cmd, err := json.Marshal(rec.Command)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, state, error, dir, archive, command_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			finished_at  = excluded.finished_at,
			state        = excluded.state,
			error        = excluded.error,
			dir          = excluded.dir,
			archive      = excluded.archive,
			command_json = excluded.command_json`,
		rec.ID, formatTime(rec.StartedAt), formatTime(rec.FinishedAt), rec.State.String(),
		nullString(rec.Err), rec.Dir, nullString(rec.Archive), string(cmd),
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, state, error, dir, archive, command_json
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                         Run
			started                   string
			finished, errMsg, archive sql.NullString
			cmdJSON                   sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.State, &errMsg, &r.Dir, &archive, &cmdJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finished.Valid {
			if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
		}
		r.Err = errMsg.String
		r.Archive = archive.String
		if cmdJSON.Valid && cmdJSON.String != "" {
			if err := json.Unmarshal([]byte(cmdJSON.String), &r.Command); err != nil {
				return nil, fmt.Errorf("unmarshal command: %w", err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
