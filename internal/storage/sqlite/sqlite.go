// Package sqlite opens the SQLite database backing projects and tags and
// provides the transaction and error helpers shared by the stores.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// DefaultTimeout bounds a single storage operation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Option configures Open.
type Option func(*options)

type options struct {
	busyTimeout time.Duration
	migrate     bool
}

// WithBusyTimeout sets how long a statement waits for a lock held by another
// connection. Non-positive values keep DefaultTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// WithoutMigrations opens the database without applying migrations.
func WithoutMigrations() Option {
	return func(o *options) { o.migrate = false }
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations. Transactions take the write lock on BEGIN so
// concurrent writers queue on the busy timeout instead of failing on upgrade.
func Open(path string, opts ...Option) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	o := options{busyTimeout: DefaultTimeout, migrate: true}
	for _, opt := range opts {
		opt(&o)
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn(cleanPath, o.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if o.migrate {
		if _, err := Migrate(context.Background(), sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func dsn(path string, busyTimeout time.Duration) string {
	return fmt.Sprintf(
		"%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate",
		path, busyTimeout.Milliseconds(),
	)
}

// DefaultPath returns the database location under XDG_DATA_HOME.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "homepage", "homepage.db")
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return WrapError(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return WrapError(err, "commit transaction")
	}
	return nil
}

// OperationContext derives the context for one storage call.
func OperationContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// errDatabaseClosed matches the unexported error database/sql returns once
// the pool is closed.
const errDatabaseClosed = "sql: database is closed"

// WrapError classifies a backend failure. Timeouts, lock contention and a
// lost database are StorageUnavailable and retryable; anything else, such as
// a bad statement or a constraint violation, is a permanent StorageFailure.
func WrapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if reason, ok := transientReason(err); ok {
		return apperrors.StorageUnavailable(err, "%s: %s", op, reason)
	}
	return apperrors.StorageFailure(err, "%s", op)
}

func transientReason(err error) (string, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout", true
	case IsBusyError(err):
		return "database busy", true
	case errors.Is(err, sql.ErrConnDone), err.Error() == errDatabaseClosed:
		return "database closed", true
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_IOERR, sqlite3lib.SQLITE_CANTOPEN, sqlite3lib.SQLITE_FULL:
			return "disk unavailable", true
		}
	}
	return "", false
}

// IsConstraintError reports a uniqueness or key constraint violation.
func IsConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
}

// IsBusyError reports lock contention that outlived the busy timeout.
func IsBusyError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code() & 0xff
	return code == sqlite3lib.SQLITE_BUSY || code == sqlite3lib.SQLITE_LOCKED
}

// ToMillis and FromMillis convert timestamps to the stored representation.
func ToMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func FromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
