package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists load outcomes to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the diagnostics endpoint read while loads are being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS load_events (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			operation    TEXT NOT NULL,
			symbol       TEXT,
			source       TEXT NOT NULL,
			failure_kind TEXT,
			detail       TEXT,
			duration_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_load_ts ON load_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_load_symbol ON load_events(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordLoad inserts evt, filling in ID and At when unset.
func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.At.IsZero() {
		evt.At = r.now()
	}
	_, err := r.db.Exec(`INSERT INTO load_events
		(id, timestamp, operation, symbol, source, failure_kind, detail, duration_ms)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.ID, evt.At.UnixMilli(), evt.Operation, evt.Symbol, evt.Source,
		evt.FailureKind, evt.Detail, evt.Duration.Milliseconds(),
	)
	return err
}

// RecentLoads returns up to limit events, newest first.
func (r *SQLiteRecorder) RecentLoads(limit int) ([]LoadEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`SELECT id, timestamp, operation, symbol, source, failure_kind, detail, duration_ms
		FROM load_events ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	defer rows.Close()

	var out []LoadEvent
	for rows.Next() {
		var (
			e      LoadEvent
			ts, ms int64
		)
		if err := rows.Scan(&e.ID, &ts, &e.Operation, &e.Symbol, &e.Source, &e.FailureKind, &e.Detail, &ms); err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		e.At = time.UnixMilli(ts)
		e.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes events older than olderThan and returns how many were removed.
func (r *SQLiteRecorder) Prune(olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-olderThan).UnixMilli()
	res, err := r.db.Exec(`DELETE FROM load_events WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune loads: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
