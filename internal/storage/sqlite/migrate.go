package sqlite

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite/migrations"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Migration is a schema change recorded in schema_migrations.
type Migration struct {
	Name      string
	AppliedAt time.Time
}

// Migrator applies the .sql files of a directory in lexical order, each at
// most once and each in its own transaction.
type Migrator struct {
	fsys   fs.FS
	root   string
	logger zerolog.Logger
}

// NewMigrator reads migrations from root within fsys. An empty root means
// the top of fsys.
func NewMigrator(fsys fs.FS, root string) *Migrator {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	return &Migrator{fsys: fsys, root: root, logger: logging.NewLogger("migrations")}
}

// Migrate applies the embedded schema migrations to db.
func Migrate(ctx context.Context, db *sql.DB) ([]Migration, error) {
	return NewMigrator(migrations.FS, "").Up(ctx, db)
}

// Up applies every pending migration and returns the ones it applied.
func (m *Migrator) Up(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if db == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", err)
	}

	files, err := m.files()
	if err != nil {
		return nil, err
	}

	var applied []Migration
	for _, file := range files {
		migration, ok, err := m.apply(ctx, db, file)
		if err != nil {
			return applied, err
		}
		if ok {
			applied = append(applied, migration)
		}
	}

	if len(applied) == 0 {
		m.logger.Debug().Int("migrations", len(files)).Msg("Schema up to date")
	}
	return applied, nil
}

// files lists the migration files under root in the order they apply.
func (m *Migrator) files() ([]string, error) {
	entries, err := fs.ReadDir(m.fsys, m.root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, path.Join(m.root, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// apply runs one migration unless it is already recorded. The check and the
// change share a transaction, so two processes starting on the same file
// apply it once.
func (m *Migrator) apply(ctx context.Context, db *sql.DB, file string) (Migration, bool, error) {
	content, err := fs.ReadFile(m.fsys, file)
	if err != nil {
		return Migration{}, false, fmt.Errorf("read migration %s: %w", file, err)
	}
	upSQL := UpSection(string(content))
	if strings.TrimSpace(upSQL) == "" {
		m.logger.Warn().Str("migration", file).Msg("Migration has no up section, skipping")
		return Migration{}, false, nil
	}

	start := time.Now()
	migration := Migration{Name: file, AppliedAt: start.UTC()}
	var applied bool
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", file).Scan(&found)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file, ToMillis(migration.AppliedAt),
		); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return Migration{}, false, fmt.Errorf("apply migration %s: %w", file, err)
	}
	if applied {
		m.logger.Info().
			Str("migration", file).
			Dur("duration", time.Since(start)).
			Msg("Applied migration")
	}
	return migration, applied, nil
}

// Applied lists the recorded migrations in the order they were applied.
func Applied(ctx context.Context, db *sql.DB) ([]Migration, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, applied_at FROM "+migrationTable+" ORDER BY applied_at, name")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Migration
	for rows.Next() {
		var (
			m         Migration
			appliedAt int64
		)
		if err := rows.Scan(&m.Name, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		m.AppliedAt = FromMillis(appliedAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpSection returns the lines between the up and down markers, or the whole
// content when the file has no up marker.
func UpSection(content string) string {
	if !strings.Contains(content, upMarker) {
		return content
	}

	var (
		b    strings.Builder
		inUp bool
	)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case upMarker:
			inUp = true
			continue
		case downMarker:
			inUp = false
			continue
		}
		if inUp {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
