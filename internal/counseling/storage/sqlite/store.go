package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ghchoi48/homeroom/internal/counseling/storage"
	"github.com/ghchoi48/homeroom/internal/counseling/storage/sqlite/migrations"
	"github.com/ghchoi48/homeroom/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// stampLayout is the storage form for created/updated timestamps. It matches
// the CURRENT_TIMESTAMP text databases from older releases already contain.
const stampLayout = "2006-01-02 15:04:05"

func toStamp(value time.Time) string {
	return value.UTC().Format(stampLayout)
}

func fromStamp(value string) time.Time {
	parsed, err := time.Parse(stampLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// Store implements counseling persistence over a single SQLite file.
//
// The pool is capped at one connection: the application has exactly one
// logical user, and the cap keeps the foreign-key pragma pinned to the
// connection every statement runs on.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the counseling SQLite store and applies bundled migrations.
//
// Migrations cover both a fresh file and a database created by an older
// release whose records table predates the category column.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}

	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// DB returns the raw database handle.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// isUniqueViolation detects the students.name uniqueness constraint firing.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ storage.StudentStore = (*Store)(nil)
var _ storage.RecordStore = (*Store)(nil)
var _ storage.ExportStore = (*Store)(nil)
var _ storage.ImportStore = (*Store)(nil)
