package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ProjectRepository defines the interface for Project data access.
// Projects are never deleted.
type ProjectRepository interface {
	// Create stores a new project. An empty ID is replaced with a new one; timestamps are set.
	Create(ctx context.Context, p *model.Project) (*model.Project, error)

	// Get retrieves a project by ID. Returns model.ErrNotFound if it does not exist.
	Get(ctx context.Context, id types.ProjectID) (*model.Project, error)

	// Update replaces an existing project, keeping CreatedAt and refreshing UpdatedAt
	Update(ctx context.Context, p *model.Project) (*model.Project, error)

	// ListByOwner returns projects owned by the user, most recently updated first
	ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Project, error)
	// List returns every project ordered by ID. Used by maintenance commands only.
	List(ctx context.Context) ([]*model.Project, error)
}
