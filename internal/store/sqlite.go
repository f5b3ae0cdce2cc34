package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/energy-planner/internal/model"
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
)

func (k changeKind) String() string {
	switch k {
	case changeInsert:
		return "inserting"
	case changeUpdate:
		return "updating"
	default:
		return "deleting"
	}
}

// change is one staged mutation waiting for Save.
type change struct {
	kind   changeKind
	entity model.Entity
}

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB

	// writeMu serializes Write callers; mu only guards pending.
	writeMu sync.Mutex
	mu      sync.Mutex
	pending []change
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases and the per-connection
	// foreign_keys pragma alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Insert stages e for insertion.
func (s *SQLiteStore) Insert(e model.Entity) { s.stage(changeInsert, e) }

// Update stages e for update.
func (s *SQLiteStore) Update(e model.Entity) { s.stage(changeUpdate, e) }

// Delete stages e for deletion.
func (s *SQLiteStore) Delete(e model.Entity) { s.stage(changeDelete, e) }

func (s *SQLiteStore) stage(kind changeKind, e model.Entity) {
	if t, ok := e.(model.Task); ok {
		e = t.Clone()
	}
	s.mu.Lock()
	s.pending = append(s.pending, change{kind: kind, entity: e})
	s.mu.Unlock()
}

// Pending reports how many changes are staged.
func (s *SQLiteStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Discard drops every staged change.
func (s *SQLiteStore) Discard() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Write runs fn with the writer lock held. Anything fn leaves staged, for
// example after returning an error before Save, is discarded.
func (s *SQLiteStore) Write(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	defer s.Discard()

	return fn()
}

// Save commits all staged changes in a single transaction. The stage is
// cleared before the commit is attempted.
func (s *SQLiteStore) Save(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range pending {
		if err := apply(ctx, tx, c); err != nil {
			return fmt.Errorf("%s %T %s: %w", c.kind, c.entity, c.entity.EntityID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func apply(ctx context.Context, tx *sqlx.Tx, c change) error {
	switch e := c.entity.(type) {
	case model.Task:
		switch c.kind {
		case changeInsert:
			return insertTask(ctx, tx, e)
		case changeUpdate:
			return updateTask(ctx, tx, e)
		default:
			return deleteByID(ctx, tx, "tasks", e.ID)
		}
	case model.SubTask:
		switch c.kind {
		case changeInsert:
			return insertSubTask(ctx, tx, e)
		case changeUpdate:
			return updateSubTask(ctx, tx, e)
		default:
			return deleteByID(ctx, tx, "subtasks", e.ID)
		}
	case model.DailyEnergyRecord:
		switch c.kind {
		case changeInsert:
			return insertEnergyRecord(ctx, tx, e)
		case changeUpdate:
			return updateEnergyRecord(ctx, tx, e)
		default:
			return deleteByID(ctx, tx, "daily_energy", e.ID)
		}
	default:
		return fmt.Errorf("unsupported entity %T", c.entity)
	}
}

// deleteByID removes a row by primary key. Deleting a missing row is not
// an error.
func deleteByID(ctx context.Context, tx *sqlx.Tx, table, id string) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	return err
}

// expectOneRow turns a zero-row UPDATE into an error.
func expectOneRow(res interface{ RowsAffected() (int64, error) }, kind, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
