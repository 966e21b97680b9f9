package project

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite"
	"github.com/FlorianTh2/homepageBackend/internal/tag"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
	"github.com/FlorianTh2/homepageBackend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TagEnsurer registers tag names inside a transaction owned by the caller.
type TagEnsurer interface {
	EnsureTagsTx(ctx context.Context, q sqlite.Querier, names []string, creatorID string) ([]string, error)
}

// Store persists projects in SQLite. Every write runs in one transaction
// together with the tag registrations it needs.
type Store struct {
	db      *sql.DB
	tags    TagEnsurer
	timeout time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

var _ Repository = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a project store. A non-positive timeout uses
// sqlite.DefaultTimeout.
func NewStore(db *sql.DB, tags TagEnsurer, timeout time.Duration, opts ...StoreOption) *Store {
	if db == nil {
		panic("project: db is required")
	}
	if tags == nil {
		panic("project: tag registry is required")
	}
	s := &Store{
		db:      db,
		tags:    tags,
		timeout: timeout,
		logger:  logging.NewLogger("project-store"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts p with its tags. A zero ID or CreatedAt is assigned.
func (s *Store) Create(ctx context.Context, p Project) (Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Project{}, apperrors.Validation("project name is required")
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return Project{}, apperrors.Validation("project owner is required")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.CreatedAt = sqlite.FromMillis(sqlite.ToMillis(p.CreatedAt))

	ctx, cancel := sqlite.OperationContext(ctx, s.timeout)
	defer cancel()

	err := sqlite.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		names, err := s.tags.EnsureTagsTx(ctx, tx, p.Tags, p.OwnerID)
		if err != nil {
			return err
		}
		p.Tags = names

		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)`,
			p.ID.String(), p.Name, p.OwnerID, sqlite.ToMillis(p.CreatedAt),
		)
		if err != nil {
			if sqlite.IsConstraintError(err) {
				return apperrors.Validation("project %s already exists", p.ID)
			}
			return sqlite.WrapError(err, "insert project")
		}
		return insertLinks(ctx, tx, p.ID, p.Tags)
	})
	if err != nil {
		return Project{}, err
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}
	ProjectWrites.WithLabelValues("create").Inc()
	s.logger.Info().
		Str("project_id", p.ID.String()).
		Str("owner_id", p.OwnerID).
		Int("tags", len(p.Tags)).
		Msg("Project created")
	return p, nil
}

// Get returns the project with id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Project, error) {
	ctx, cancel := sqlite.OperationContext(ctx, s.timeout)
	defer cancel()

	projects, err := selectProjects(ctx, s.db, "p.id = ?", []any{id.String()})
	if err != nil {
		return Project{}, err
	}
	if len(projects) == 0 {
		return Project{}, apperrors.NotFound("project %s not found", id)
	}
	return projects[0], nil
}

// List returns the projects matching filter, oldest first with ties broken
// by id, cut to the requested page.
func (s *Store) List(ctx context.Context, filter Filter, page pagination.Request) (pagination.Page[Project], error) {
	ctx, cancel := sqlite.OperationContext(ctx, s.timeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if owner := strings.TrimSpace(filter.OwnerID); owner != "" {
		where = append(where, "p.owner_id = ?")
		args = append(args, owner)
	}
	if name := tag.Normalize(filter.Tag); name != "" {
		where = append(where, "EXISTS (SELECT 1 FROM project_tags f WHERE f.project_id = p.id AND f.tag_name = ?)")
		args = append(args, name)
	}

	projects, err := selectProjects(ctx, s.db, strings.Join(where, " AND "), args)
	if err != nil {
		return pagination.Page[Project]{}, err
	}
	return pagination.Paginate(projects, page), nil
}

// Update persists the name and tag set of an existing project. A nil Tags
// keeps the stored tag set. The owner and creation time are kept from the
// stored record.
func (s *Store) Update(ctx context.Context, p Project) (Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Project{}, apperrors.Validation("project name is required")
	}

	ctx, cancel := sqlite.OperationContext(ctx, s.timeout)
	defer cancel()

	err := sqlite.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var createdAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT owner_id, created_at FROM projects WHERE id = ?`, p.ID.String(),
		).Scan(&p.OwnerID, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("project %s not found", p.ID)
		}
		if err != nil {
			return sqlite.WrapError(err, "load project")
		}
		p.CreatedAt = sqlite.FromMillis(createdAt)

		if _, err := tx.ExecContext(ctx, `UPDATE projects SET name = ? WHERE id = ?`, p.Name, p.ID.String()); err != nil {
			return sqlite.WrapError(err, "update project")
		}

		if p.Tags == nil {
			p.Tags, err = linkedTags(ctx, tx, p.ID)
			return err
		}

		names, err := s.tags.EnsureTagsTx(ctx, tx, p.Tags, p.OwnerID)
		if err != nil {
			return err
		}
		p.Tags = names

		if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, p.ID.String()); err != nil {
			return sqlite.WrapError(err, "replace project tags")
		}
		return insertLinks(ctx, tx, p.ID, p.Tags)
	})
	if err != nil {
		return Project{}, err
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}
	ProjectWrites.WithLabelValues("update").Inc()
	s.logger.Info().Str("project_id", p.ID.String()).Msg("Project updated")
	return p, nil
}

// Delete removes the project and its tag links. It reports false when the
// project did not exist.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := sqlite.OperationContext(ctx, s.timeout)
	defer cancel()

	var deleted bool
	err := sqlite.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, id.String()); err != nil {
			return sqlite.WrapError(err, "delete project tags")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
		if err != nil {
			return sqlite.WrapError(err, "delete project")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return sqlite.WrapError(err, "delete project")
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		ProjectWrites.WithLabelValues("delete").Inc()
		s.logger.Info().Str("project_id", id.String()).Msg("Project deleted")
	}
	return deleted, nil
}

// Owns reports whether userID owns the project. A missing project is owned
// by nobody.
func (s *Store) Owns(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	ctx, cancel := sqlite.OperationContext(ctx, s.timeout)
	defer cancel()

	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM projects WHERE id = ?`, id.String()).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, sqlite.WrapError(err, "check project owner")
	}
	return userID != "" && owner == userID, nil
}

func insertLinks(ctx context.Context, q sqlite.Querier, id uuid.UUID, names []string) error {
	for i, name := range names {
		_, err := q.ExecContext(ctx,
			`INSERT INTO project_tags (project_id, tag_name, position) VALUES (?, ?, ?)`,
			id.String(), name, i,
		)
		if err != nil {
			return sqlite.WrapError(err, "link project tag")
		}
	}
	return nil
}

// projectColumns selects every project together with its tag links, one row
// per link, so a project and its tags are read from a single snapshot.
const projectColumns = `SELECT p.id, p.name, p.owner_id, p.created_at, pt.tag_name
FROM projects p
LEFT JOIN project_tags pt ON pt.project_id = p.id`

// selectProjects returns the projects matching where, oldest first with
// ties broken by id, each with its tags in link order.
func selectProjects(ctx context.Context, q sqlite.Querier, where string, args []any) ([]Project, error) {
	query := projectColumns
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY p.created_at ASC, p.id ASC, pt.position ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlite.WrapError(err, "list projects")
	}
	defer func() { _ = rows.Close() }()

	var projects []Project
	for rows.Next() {
		var (
			rawID     string
			name      string
			ownerID   string
			createdAt int64
			tagName   sql.NullString
		)
		if err := rows.Scan(&rawID, &name, &ownerID, &createdAt, &tagName); err != nil {
			return nil, sqlite.WrapError(err, "scan project")
		}

		if n := len(projects); n == 0 || projects[n-1].ID.String() != rawID {
			id, err := uuid.Parse(rawID)
			if err != nil {
				return nil, apperrors.StorageFailure(err, "invalid stored project id %q", rawID)
			}
			projects = append(projects, Project{
				ID:        id,
				Name:      name,
				OwnerID:   ownerID,
				CreatedAt: sqlite.FromMillis(createdAt),
				Tags:      []string{},
			})
		}
		if tagName.Valid {
			last := &projects[len(projects)-1]
			last.Tags = append(last.Tags, tagName.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.WrapError(err, "list projects")
	}
	return projects, nil
}

// linkedTags returns the tag names of one project in link order.
func linkedTags(ctx context.Context, q sqlite.Querier, id uuid.UUID) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT tag_name FROM project_tags WHERE project_id = ? ORDER BY position`, id.String(),
	)
	if err != nil {
		return nil, sqlite.WrapError(err, "load project tags")
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, sqlite.WrapError(err, "scan project tag")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.WrapError(err, "load project tags")
	}
	return names, nil
}
