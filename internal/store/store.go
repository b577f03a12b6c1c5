// Package store persists saved projects.
package store

import (
	"context"
	"errors"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rotisserie/eris"
)

// ErrNotFound is wrapped by every lookup of a missing project.
var ErrNotFound = eris.New("not found")

// IsNotFound reports whether err is a missing-project error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ProjectFilter specifies criteria for listing projects.
type ProjectFilter struct {
	Search string `json:"search,omitempty"` // substring of the name
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for saved projects.
type Store interface {
	CreateProject(ctx context.Context, p *domain.SavedProject) (*domain.SavedProject, error)
	GetProject(ctx context.Context, id string) (*domain.SavedProject, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]domain.ProjectSummary, error)
	UpdateProject(ctx context.Context, p *domain.SavedProject) (*domain.SavedProject, error)
	DeleteProject(ctx context.Context, id string) error
	DuplicateProject(ctx context.Context, id, newName string) (*domain.SavedProject, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
