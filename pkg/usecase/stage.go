package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type StageUseCase struct {
	repo    interfaces.Repository
	schemas *config.StageSchemas
}

func NewStageUseCase(repo interfaces.Repository, schemas *config.StageSchemas) *StageUseCase {
	return &StageUseCase{
		repo:    repo,
		schemas: schemas,
	}
}

// GetStageSchemas returns every stage form in lifecycle order
func (uc *StageUseCase) GetStageSchemas() []*config.StageSchema {
	return uc.schemas.List()
}

func (uc *StageUseCase) GetStageSchema(stage types.Stage) (*config.StageSchema, error) {
	return stageSchema(uc.schemas, stage)
}

func stageSchema(schemas *config.StageSchemas, stage types.Stage) (*config.StageSchema, error) {
	if !stage.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidOptionID, "unknown stage", goerr.V(StageKey, stage))
	}
	schema, ok := schemas.Get(stage)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "stage form is not configured", goerr.V(StageKey, stage))
	}
	return schema, nil
}

// GetStage returns the saved record, or an empty record when the stage has not been saved yet
func (uc *StageUseCase) GetStage(ctx context.Context, projectID types.ProjectID, stage types.Stage) (*model.StageRecord, error) {
	if _, err := stageSchema(uc.schemas, stage); err != nil {
		return nil, err
	}
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}
	return getStageRecord(ctx, uc.repo, projectID, stage)
}

func getStageRecord(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID, stage types.Stage) (*model.StageRecord, error) {
	record, err := repo.Stage().Get(ctx, projectID, stage)
	if errors.Is(err, model.ErrNotFound) {
		return &model.StageRecord{
			ProjectID: projectID,
			Stage:     stage,
			Values:    map[string]any{},
		}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get stage", goerr.V(ProjectIDKey, projectID), goerr.V(StageKey, stage))
	}
	return record, nil
}

// SaveStage validates values against the stage form and replaces the stored record.
// Other stages of the project are never touched.
func (uc *StageUseCase) SaveStage(ctx context.Context, projectID types.ProjectID, stage types.Stage, values map[string]any) (*model.StageRecord, error) {
	schema, err := stageSchema(uc.schemas, stage)
	if err != nil {
		return nil, err
	}
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}

	normalized, err := model.NewStageValidator(schema).Validate(values)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid stage values", goerr.V(ProjectIDKey, projectID), goerr.V(StageKey, stage))
	}

	saved, err := uc.repo.Stage().Put(ctx, &model.StageRecord{
		ProjectID: projectID,
		Stage:     stage,
		Values:    normalized,
		UpdatedBy: user.ID,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save stage", goerr.V(ProjectIDKey, projectID), goerr.V(StageKey, stage))
	}
	return saved, nil
}

// ListStages returns saved records in lifecycle order
func (uc *StageUseCase) ListStages(ctx context.Context, projectID types.ProjectID) ([]*model.StageRecord, error) {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}
	records, err := uc.repo.Stage().List(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list stages", goerr.V(ProjectIDKey, projectID))
	}
	return records, nil
}
