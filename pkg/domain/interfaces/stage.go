package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// StageRepository stores one record per (project, stage)
type StageRepository interface {
	// Get returns model.ErrNotFound when the stage has not been saved yet
	Get(ctx context.Context, projectID types.ProjectID, stage types.Stage) (*model.StageRecord, error)

	// Put creates or replaces the record and sets UpdatedAt
	Put(ctx context.Context, record *model.StageRecord) (*model.StageRecord, error)

	// List returns saved records of the project in lifecycle order
	List(ctx context.Context, projectID types.ProjectID) ([]*model.StageRecord, error)
}
