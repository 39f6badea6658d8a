package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type riskRepository struct {
	mu    sync.RWMutex
	risks map[types.ProjectID]map[types.RiskID]*model.RiskEntry
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks: make(map[types.ProjectID]map[types.RiskID]*model.RiskEntry),
	}
}

func (r *riskRepository) Create(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.risks[entry.ProjectID]; !exists {
		r.risks[entry.ProjectID] = make(map[types.RiskID]*model.RiskEntry)
	}

	created := entry.Copy()
	if created.ID == "" {
		created.ID = types.NewRiskID()
	}
	ts := now()
	created.CreatedAt = ts
	created.UpdatedAt = ts

	r.risks[created.ProjectID][created.ID] = created
	return created.Copy(), nil
}

func (r *riskRepository) Get(ctx context.Context, projectID types.ProjectID, id types.RiskID) (*model.RiskEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.risks[projectID][id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}
	return entry.Copy(), nil
}

func (r *riskRepository) Update(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[entry.ProjectID][entry.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found",
			goerr.V("project_id", entry.ProjectID),
			goerr.V("id", entry.ID))
	}

	updated := entry.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()

	r.risks[updated.ProjectID][updated.ID] = updated
	return updated.Copy(), nil
}

func (r *riskRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.RiskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.risks[projectID][id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "risk not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}
	delete(r.risks[projectID], id)
	return nil
}

func (r *riskRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.RiskEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.RiskEntry, 0, len(r.risks[projectID]))
	for _, entry := range r.risks[projectID] {
		risks = append(risks, entry.Copy())
	}
	return risks, nil
}
