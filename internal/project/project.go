// Package project stores portfolio projects and their tag links, and
// enforces that only a project's owner may change it.
package project

import (
	"context"
	"time"

	"github.com/FlorianTh2/homepageBackend/pkg/pagination"
	"github.com/google/uuid"
)

// Project is a portfolio entry owned by one user.
type Project struct {
	ID        uuid.UUID
	Name      string
	OwnerID   string
	CreatedAt time.Time
	// Tags are normalized tag names in the order they were first given.
	Tags []string
}

// Filter narrows a listing. Empty fields do not constrain the result; set
// fields are combined with AND.
type Filter struct {
	OwnerID string
	Tag     string
}

// Repository is the storage contract the service depends on.
type Repository interface {
	Create(ctx context.Context, p Project) (Project, error)
	Get(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, filter Filter, page pagination.Request) (pagination.Page[Project], error)
	// Update keeps the stored tags when p.Tags is nil.
	Update(ctx context.Context, p Project) (Project, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Owns(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}
