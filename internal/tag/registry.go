package tag

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
	"github.com/rs/zerolog"
)

// Registry stores tag names. Inserts are insert-if-absent on the primary
// key, so concurrent callers registering the same name all succeed and
// exactly one row is written.
type Registry struct {
	db      *sql.DB
	timeout time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewRegistry creates a registry over db. A non-positive timeout uses
// sqlite.DefaultTimeout.
func NewRegistry(db *sql.DB, timeout time.Duration) *Registry {
	if db == nil {
		panic("tag: db is required")
	}
	return &Registry{
		db:      db,
		timeout: timeout,
		logger:  logging.NewLogger("tag-registry"),
		now:     time.Now,
	}
}

// EnsureTags registers every name that is not registered yet.
func (r *Registry) EnsureTags(ctx context.Context, names []string, creatorID string) error {
	ctx, cancel := sqlite.OperationContext(ctx, r.timeout)
	defer cancel()

	return sqlite.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := r.EnsureTagsTx(ctx, tx, names, creatorID)
		return err
	})
}

// EnsureTagsTx is EnsureTags bound to a transaction owned by the caller. It
// returns the normalized, de-duplicated names in first-occurrence order.
func (r *Registry) EnsureTagsTx(ctx context.Context, q sqlite.Querier, names []string, creatorID string) ([]string, error) {
	normalized := NormalizeAll(names)
	createdAt := sqlite.ToMillis(r.now())

	for _, name := range normalized {
		res, err := q.ExecContext(ctx,
			`INSERT INTO tags (name, creator_id, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`,
			name, creatorID, createdAt,
		)
		if err != nil {
			if sqlite.IsConstraintError(err) {
				TagInserts.WithLabelValues("existing").Inc()
				continue
			}
			return nil, sqlite.WrapError(err, "insert tag")
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return nil, sqlite.WrapError(err, "insert tag")
		}
		if affected == 0 {
			TagInserts.WithLabelValues("existing").Inc()
			continue
		}
		TagInserts.WithLabelValues("created").Inc()
		r.logger.Debug().Str("tag", name).Str("creator_id", creatorID).Msg("Tag registered")
	}
	return normalized, nil
}

// DeleteTag removes the tag and every project link to it. Deleting a tag
// that is not registered succeeds with deleted == false.
func (r *Registry) DeleteTag(ctx context.Context, name string) (bool, error) {
	name = Normalize(name)
	if name == "" {
		return false, apperrors.Validation("tag name is required")
	}

	ctx, cancel := sqlite.OperationContext(ctx, r.timeout)
	defer cancel()

	var deleted bool
	err := sqlite.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE tag_name = ?`, name); err != nil {
			return sqlite.WrapError(err, "delete tag links")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name)
		if err != nil {
			return sqlite.WrapError(err, "delete tag")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return sqlite.WrapError(err, "delete tag")
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		TagDeletes.Inc()
		r.logger.Info().Str("tag", name).Msg("Tag deleted")
	}
	return deleted, nil
}

// GetTag returns a registered tag.
func (r *Registry) GetTag(ctx context.Context, name string) (Tag, error) {
	name = Normalize(name)
	if name == "" {
		return Tag{}, apperrors.Validation("tag name is required")
	}

	ctx, cancel := sqlite.OperationContext(ctx, r.timeout)
	defer cancel()

	return r.getTag(ctx, r.db, name)
}

func (r *Registry) getTag(ctx context.Context, q sqlite.Querier, name string) (Tag, error) {
	var (
		t         Tag
		createdAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT name, creator_id, created_at FROM tags WHERE name = ?`, name,
	).Scan(&t.Name, &t.CreatorID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Tag{}, apperrors.NotFound("tag %q not found", name)
	}
	if err != nil {
		return Tag{}, sqlite.WrapError(err, "get tag")
	}
	t.CreatedAt = sqlite.FromMillis(createdAt)
	return t, nil
}

// ListTags returns all tags ordered by name.
func (r *Registry) ListTags(ctx context.Context) ([]Tag, error) {
	ctx, cancel := sqlite.OperationContext(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT name, creator_id, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, sqlite.WrapError(err, "list tags")
	}
	defer func() { _ = rows.Close() }()

	tags := []Tag{}
	for rows.Next() {
		var (
			t         Tag
			createdAt int64
		)
		if err := rows.Scan(&t.Name, &t.CreatorID, &createdAt); err != nil {
			return nil, sqlite.WrapError(err, "scan tag")
		}
		t.CreatedAt = sqlite.FromMillis(createdAt)
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.WrapError(err, "list tags")
	}
	return tags, nil
}

// CreateTag registers a single tag and returns the stored record. Creating
// a tag that already exists returns the existing record unchanged.
func (r *Registry) CreateTag(ctx context.Context, name, creatorID string) (Tag, error) {
	name = Normalize(name)
	if name == "" {
		return Tag{}, apperrors.Validation("tag name is required")
	}

	ctx, cancel := sqlite.OperationContext(ctx, r.timeout)
	defer cancel()

	var created Tag
	err := sqlite.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := r.EnsureTagsTx(ctx, tx, []string{name}, creatorID); err != nil {
			return err
		}
		t, err := r.getTag(ctx, tx, name)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return Tag{}, err
	}
	return created, nil
}
