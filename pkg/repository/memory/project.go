package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type projectRepository struct {
	mu       sync.RWMutex
	projects map[types.ProjectID]*model.Project
}

func newProjectRepository() *projectRepository {
	return &projectRepository{
		projects: make(map[types.ProjectID]*model.Project),
	}
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := p.Copy()
	if created.ID == "" {
		created.ID = types.NewProjectID()
	}
	if _, exists := r.projects[created.ID]; exists {
		return nil, goerr.New("project already exists", goerr.V("id", created.ID))
	}

	ts := now()
	created.CreatedAt = ts
	created.UpdatedAt = ts

	r.projects[created.ID] = created
	return created.Copy(), nil
}

func (r *projectRepository) Get(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.projects[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V("id", id))
	}
	return p.Copy(), nil
}

func (r *projectRepository) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.projects[p.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V("id", p.ID))
	}

	updated := p.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()

	r.projects[updated.ID] = updated
	return updated.Copy(), nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, p.Copy())
		}
	}

	slices.SortFunc(projects, func(a, b *model.Project) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return projects, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p.Copy())
	}

	slices.SortFunc(projects, func(a, b *model.Project) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return projects, nil
}
