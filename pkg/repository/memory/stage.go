package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type stageRepository struct {
	mu      sync.RWMutex
	records map[types.ProjectID]map[types.Stage]*model.StageRecord
}

func newStageRepository() *stageRepository {
	return &stageRepository{
		records: make(map[types.ProjectID]map[types.Stage]*model.StageRecord),
	}
}

func (r *stageRepository) Get(ctx context.Context, projectID types.ProjectID, stage types.Stage) (*model.StageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[projectID][stage]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "stage record not found",
			goerr.V("project_id", projectID),
			goerr.V("stage", stage))
	}
	return record.Copy(), nil
}

func (r *stageRepository) Put(ctx context.Context, record *model.StageRecord) (*model.StageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ProjectID]; !exists {
		r.records[record.ProjectID] = make(map[types.Stage]*model.StageRecord)
	}

	stored := record.Copy()
	stored.UpdatedAt = now()
	r.records[record.ProjectID][record.Stage] = stored
	return stored.Copy(), nil
}

func (r *stageRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.StageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.StageRecord, 0, len(r.records[projectID]))
	for _, record := range r.records[projectID] {
		records = append(records, record.Copy())
	}

	slices.SortFunc(records, func(a, b *model.StageRecord) int {
		return a.Stage.Index() - b.Stage.Index()
	})
	return records, nil
}
