package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// ProjectInput is the editable part of a project
type ProjectInput struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	CustomerRef  string             `json:"customer_ref"`
	Description  string             `json:"description"`
	UseCase      string             `json:"use_case"`
	SystemType   types.SystemType   `json:"system_type"`
	RiskCategory types.RiskCategory `json:"risk_category"`
}

func (in ProjectInput) apply(p *model.Project) {
	p.Name = strings.TrimSpace(in.Name)
	p.Version = strings.TrimSpace(in.Version)
	p.CustomerRef = strings.TrimSpace(in.CustomerRef)
	p.Description = strings.TrimSpace(in.Description)
	p.UseCase = strings.TrimSpace(in.UseCase)
	p.SystemType = in.SystemType
	p.RiskCategory = in.RiskCategory
}

// ProjectOverview is the dashboard view of one project
type ProjectOverview struct {
	Project   *model.Project
	Stages    []model.StageCompletion
	Risks     *model.RiskSummary
	Documents []*model.Document // latest revision per kind, in kind order
}

type ProjectUseCase struct {
	repo    interfaces.Repository
	schemas *config.StageSchemas
}

func NewProjectUseCase(repo interfaces.Repository, schemas *config.StageSchemas) *ProjectUseCase {
	return &ProjectUseCase{
		repo:    repo,
		schemas: schemas,
	}
}

func (uc *ProjectUseCase) CreateProject(ctx context.Context, in ProjectInput) (*model.Project, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	project := &model.Project{OwnerID: user.ID}
	in.apply(project)
	if err := project.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid project")
	}

	created, err := uc.repo.Project().Create(ctx, project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}
	return created, nil
}

func (uc *ProjectUseCase) UpdateProject(ctx context.Context, id types.ProjectID, in ProjectInput) (*model.Project, error) {
	project, err := loadProject(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	in.apply(project)
	if err := project.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid project", goerr.V(ProjectIDKey, id))
	}

	updated, err := uc.repo.Project().Update(ctx, project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V(ProjectIDKey, id))
	}
	return updated, nil
}

func (uc *ProjectUseCase) GetProject(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	return loadProject(ctx, uc.repo, id)
}

// ListProjects returns the caller's projects, most recently updated first
func (uc *ProjectUseCase) ListProjects(ctx context.Context) ([]*model.Project, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := uc.repo.Project().ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects", goerr.V("owner_id", user.ID))
	}
	return projects, nil
}

// GetOverview loads stage completion, the risk summary and the latest documents concurrently
func (uc *ProjectUseCase) GetOverview(ctx context.Context, id types.ProjectID) (*ProjectOverview, error) {
	project, err := loadProject(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	overview := &ProjectOverview{Project: project}
	kinds := types.AllDocumentKinds()
	latest := make([]*model.Document, len(kinds))

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		records, err := uc.repo.Stage().List(egCtx, id)
		if err != nil {
			return goerr.Wrap(err, "failed to list stages")
		}
		byStage := make(map[types.Stage]*model.StageRecord, len(records))
		for _, r := range records {
			byStage[r.Stage] = r
		}
		for _, schema := range uc.schemas.List() {
			overview.Stages = append(overview.Stages, model.Completion(schema, byStage[schema.Stage]))
		}
		return nil
	})

	eg.Go(func() error {
		risks, err := uc.repo.Risk().List(egCtx, id)
		if err != nil {
			return goerr.Wrap(err, "failed to list risks")
		}
		overview.Risks = model.SummarizeRisks(risks)
		return nil
	})

	for i, kind := range kinds {
		eg.Go(func() error {
			doc, err := uc.repo.Document().Latest(egCtx, id, kind)
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			if err != nil {
				return goerr.Wrap(err, "failed to get latest document", goerr.V("kind", kind))
			}
			latest[i] = doc
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to load project overview", goerr.V(ProjectIDKey, id))
	}

	for _, doc := range latest {
		if doc != nil {
			overview.Documents = append(overview.Documents, doc)
		}
	}
	return overview, nil
}
