package project

import (
	"context"
	"strings"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
	"github.com/FlorianTh2/homepageBackend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service applies the ownership rules on top of a Repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a project service.
func NewService(repo Repository) *Service {
	if repo == nil {
		panic("project: repository is required")
	}
	return &Service{
		repo:   repo,
		logger: logging.NewLogger("project-service"),
	}
}

// CreateProject creates a project owned by userID.
func (s *Service) CreateProject(ctx context.Context, userID, name string, tags []string) (Project, error) {
	if strings.TrimSpace(userID) == "" {
		return Project{}, apperrors.Unauthenticated("authentication required to create a project")
	}
	return s.repo.Create(ctx, Project{Name: name, OwnerID: userID, Tags: tags})
}

// GetProject returns a single project.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	return s.repo.Get(ctx, id)
}

// ListProjects returns a page of projects matching filter.
func (s *Service) ListProjects(ctx context.Context, filter Filter, page pagination.Request) (pagination.Page[Project], error) {
	return s.repo.List(ctx, filter, page)
}

// UpdateProject renames the project and, when tags is non-nil, replaces its
// tag set. Only the owner may update a project.
func (s *Service) UpdateProject(ctx context.Context, userID string, id uuid.UUID, name string, tags []string) (Project, error) {
	if err := s.authorize(ctx, "update", userID, id); err != nil {
		return Project{}, err
	}

	return s.repo.Update(ctx, Project{ID: id, Name: name, Tags: tags})
}

// DeleteProject deletes the project. Only the owner may delete a project.
func (s *Service) DeleteProject(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.authorize(ctx, "delete", userID, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("project %s not found", id)
	}
	return nil
}

// authorize fails with OwnershipViolation unless userID owns the project,
// and with NotFound when there is no such project.
func (s *Service) authorize(ctx context.Context, operation, userID string, id uuid.UUID) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.Unauthenticated("authentication required to " + operation + " a project")
	}

	owns, err := s.repo.Owns(ctx, id, userID)
	if err != nil {
		return err
	}
	if owns {
		return nil
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	OwnershipRejections.WithLabelValues(operation).Inc()
	s.logger.Warn().
		Str("project_id", id.String()).
		Str("user_id", userID).
		Str("operation", operation).
		Msg("Rejected mutation by non-owner")
	return apperrors.OwnershipViolation("user %s does not own project %s", userID, id)
}
