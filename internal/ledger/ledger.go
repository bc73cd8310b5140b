// Package ledger records every exported quote in a SQLite database so that
// past exports of a project can be listed.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// Schema upgrades are tracked with PRAGMA user_version.
package ledger

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// FileName is the ledger database inside the data directory.
const FileName = "exports.db"

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Added index on exports(project_id, id)
const currentSchemaVersion = 1

// Clock supplies export timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Entry is one recorded export.
type Entry struct {
	ID         int64     `db:"id" json:"id"`
	ProjectID  string    `db:"project_id" json:"project_id"`
	CustomerID string    `db:"customer_id" json:"customer_id"`
	Path       string    `db:"path" json:"path"`
	Template   string    `db:"template" json:"template"`
	ItemCount  int       `db:"item_count" json:"item_count"`
	Subtotal   float64   `db:"subtotal" json:"subtotal"`
	Tax        float64   `db:"tax" json:"tax"`
	Total      float64   `db:"total" json:"total"`
	ExportedAt time.Time `db:"exported_at" json:"exported_at"`
}

// Ledger is the export history database.
type Ledger struct {
	db    *sqlx.DB
	clock Clock
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used to stamp entries recorded without a time.
func WithClock(c Clock) Option {
	return func(l *Ledger) {
		l.clock = c
	}
}

// Open creates or opens the ledger database at path and brings its schema
// up to date. Safe to call on an existing database.
func Open(path string, opts ...Option) (*Ledger, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	l := &Ledger{db: db, clock: systemClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores e and returns its id. A zero ExportedAt is stamped with the
// ledger's clock.
func (l *Ledger) Record(ctx context.Context, e Entry) (int64, error) {
	if e.ExportedAt.IsZero() {
		e.ExportedAt = l.clock.Now()
	}

	res, err := l.db.NamedExecContext(ctx, `
		INSERT INTO exports
			(project_id, customer_id, path, template, item_count, subtotal, tax, total, exported_at)
		VALUES
			(:project_id, :customer_id, :path, :template, :item_count, :subtotal, :tax, :total, :exported_at)
	`, e)
	if err != nil {
		return 0, fmt.Errorf("record export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record export: %w", err)
	}
	slog.Debug("export recorded", "id", id, "project", e.ProjectID, "path", e.Path)
	return id, nil
}

// List returns the exports of projectID, newest first.
func (l *Ledger) List(ctx context.Context, projectID string) ([]Entry, error) {
	entries := []Entry{}
	err := l.db.SelectContext(ctx, &entries, `
		SELECT id, project_id, customer_id, path, template, item_count, subtotal, tax, total, exported_at
		FROM exports
		WHERE project_id = ?
		ORDER BY id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return entries, nil
}

// DeleteProject removes every entry of projectID and reports how many
// were removed.
func (l *Ledger) DeleteProject(ctx context.Context, projectID string) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM exports WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete exports: %w", err)
	}
	return res.RowsAffected()
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sqlx.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func runMigrations(db *sqlx.DB) error {
	var version int
	if err := db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func migrateToV1(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_exports_project
		ON exports(project_id, id)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// pragma returns the current value of a pragma. Used by tests.
func (l *Ledger) pragma(name string) (string, error) {
	var value string
	if err := l.db.Get(&value, fmt.Sprintf("PRAGMA %s", name)); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", name, err)
	}
	return value, nil
}
