package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite handle backing the LLM event log. Session state
// never lands here; sessions live in memory for the process lifetime.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open connects to the SQLite database at dsn, applies pragmas and
// creates the event tables if they do not exist yet.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// llmEventsColumns mirrors the shape ent would generate for an
// LLMRequestEvent schema with the event mixin.
var llmEventsColumns = []*schema.Column{
	{Name: "id", Type: field.TypeInt, Increment: true},
	{Name: "timestamp_ms", Type: field.TypeInt64},
	{Name: "provider", Type: field.TypeString, Default: ""},
	{Name: "model", Type: field.TypeString, Default: ""},
	{Name: "purpose", Type: field.TypeString, Default: ""},
	{Name: "input_tokens", Type: field.TypeInt, Default: 0},
	{Name: "output_tokens", Type: field.TypeInt, Default: 0},
	{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
	{Name: "success", Type: field.TypeBool, Default: false},
	{Name: "error_message", Type: field.TypeString, Default: ""},
	{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
}

var llmEventsSchema = &schema.Table{
	Name:       llmEventsTable,
	Columns:    llmEventsColumns,
	PrimaryKey: []*schema.Column{llmEventsColumns[0]},
	Indexes: []*schema.Index{
		{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[4]}},
		{Name: "llmrequestevent_timestamp_ms", Columns: []*schema.Column{llmEventsColumns[1]}},
		{Name: "llmrequestevent_success", Columns: []*schema.Column{llmEventsColumns[8]}},
	},
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, llmEventsSchema)
}

// DefaultDBPath resolves the database file path in priority order:
// 1. DRILL_DB environment variable
// 2. $XDG_DATA_HOME/drill/drill.db
// 3. ~/.local/share/drill/drill.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("DRILL_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "drill", "drill.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
