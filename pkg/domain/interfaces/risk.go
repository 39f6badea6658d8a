package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// RiskRepository defines the interface for risk register access
type RiskRepository interface {
	// Create stores a new entry. An empty ID is replaced with a new one; timestamps are set.
	Create(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error)

	// Get retrieves an entry of the project
	Get(ctx context.Context, projectID types.ProjectID, id types.RiskID) (*model.RiskEntry, error)

	// Update replaces an existing entry, keeping CreatedAt
	Update(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error)

	// Delete removes an entry
	Delete(ctx context.Context, projectID types.ProjectID, id types.RiskID) error

	// List returns every entry of the project in no particular order
	List(ctx context.Context, projectID types.ProjectID) ([]*model.RiskEntry, error)
}
