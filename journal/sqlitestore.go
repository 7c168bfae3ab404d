package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lilac-ui/validity"

	_ "modernc.org/sqlite"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteStoreConfig configures the SQLite event store.
type SQLiteStoreConfig struct {
	// DSN is the database connection string.
	DSN string

	// RetentionAge deletes events older than this duration (0 = no age pruning).
	RetentionAge time.Duration

	// RetentionCount keeps at most this many events per validation context
	// (0 = no count pruning).
	RetentionCount int

	// PruneInterval is how often to run pruning (default 1 hour).
	PruneInterval time.Duration
}

// SQLiteStore persists validation events to a SQLite database. It satisfies
// the Store interface, enables WAL mode for concurrent read access, and runs
// a background pruner goroutine when retention is configured.
type SQLiteStore struct {
	db   *sql.DB
	cfg  SQLiteStoreConfig
	stop chan struct{}
	done chan struct{}
}

// NewSQLiteStore opens (or creates) a SQLite event store.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = time.Hour
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	s := &SQLiteStore{
		db:   db,
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if cfg.RetentionAge > 0 || cfg.RetentionCount > 0 {
		go s.pruneLoop()
	} else {
		close(s.done)
	}

	return s, nil
}

// Append stores an event in the database.
func (s *SQLiteStore) Append(ctx context.Context, event validity.Event) error {
	paths := event.Paths
	if paths == nil {
		paths = []string{}
	}
	pathsJSON, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("journal: marshal paths: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO validation_events (entry_id, context_id, seq, kind, paths, valid, text, time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		event.ContextID,
		event.Seq,
		string(event.Kind),
		string(pathsJSON),
		boolToInt(event.Valid),
		event.Text,
		event.Time.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	return nil
}

// List returns events for a validation context, filtered by afterSeq and limit.
func (s *SQLiteStore) List(ctx context.Context, contextID string, afterSeq uint64, limit int) ([]validity.Event, error) {
	query := `SELECT context_id, seq, kind, paths, valid, text, time
	           FROM validation_events WHERE context_id = ? AND seq > ? ORDER BY seq ASC`
	args := []any{contextID, afterSeq}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LatestSeq returns the highest Seq for a validation context (0 if no events).
func (s *SQLiteStore) LatestSeq(ctx context.Context, contextID string) (uint64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM validation_events WHERE context_id = ?`, contextID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("journal: latest seq: %w", err)
	}
	if !seq.Valid || seq.Int64 < 0 {
		return 0, nil
	}
	return uint64(seq.Int64), nil // #nosec G115 -- seq is always non-negative
}

// ContextIDs returns distinct validation context IDs from the store.
func (s *SQLiteStore) ContextIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT context_id FROM validation_events ORDER BY context_id`)
	if err != nil {
		return nil, fmt.Errorf("journal: context ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("journal: scan context id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close stops the background pruner and closes the database connection.
func (s *SQLiteStore) Close() error {
	select {
	case <-s.stop:
		// Already closed.
	default:
		close(s.stop)
	}
	<-s.done
	return s.db.Close()
}

// Prune runs a single pruning pass. Exported for testing.
func (s *SQLiteStore) Prune(ctx context.Context) error {
	if s.cfg.RetentionAge > 0 {
		cutoff := time.Now().Add(-s.cfg.RetentionAge).Format(time.RFC3339Nano)
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM validation_events WHERE time < ?`, cutoff,
		); err != nil {
			return fmt.Errorf("journal: prune by age: %w", err)
		}
	}

	if s.cfg.RetentionCount > 0 {
		ids, err := s.ContextIDs(ctx)
		if err != nil {
			return fmt.Errorf("journal: prune: %w", err)
		}
		for _, contextID := range ids {
			if _, err := s.db.ExecContext(ctx,
				`DELETE FROM validation_events WHERE context_id = ? AND id NOT IN (
					SELECT id FROM validation_events WHERE context_id = ? ORDER BY seq DESC LIMIT ?
				)`, contextID, contextID, s.cfg.RetentionCount,
			); err != nil {
				return fmt.Errorf("journal: prune by count for %s: %w", contextID, err)
			}
		}
	}

	return nil
}

func (s *SQLiteStore) pruneLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			_ = s.Prune(context.Background())
		}
	}
}

func scanEvents(rows *sql.Rows) ([]validity.Event, error) {
	var events []validity.Event
	for rows.Next() {
		var (
			e         validity.Event
			kind      string
			pathsJSON string
			valid     int
			timeStr   string
		)
		err := rows.Scan(
			&e.ContextID,
			&e.Seq,
			&kind,
			&pathsJSON,
			&valid,
			&e.Text,
			&timeStr,
		)
		if err != nil {
			return nil, fmt.Errorf("journal: scan event: %w", err)
		}
		e.Kind = validity.EventKind(kind)
		e.Valid = valid != 0
		var paths []string
		if err := json.Unmarshal([]byte(pathsJSON), &paths); err != nil {
			return nil, fmt.Errorf("journal: unmarshal paths: %w", err)
		}
		if len(paths) > 0 {
			e.Paths = paths
		}
		ts, err := time.Parse(time.RFC3339Nano, timeStr)
		if err != nil {
			return nil, fmt.Errorf("journal: parse time: %w", err)
		}
		e.Time = ts
		events = append(events, e)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)
