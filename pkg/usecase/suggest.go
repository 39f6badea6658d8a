package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/suggest"
	"golang.org/x/sync/errgroup"
)

// SuggestUseCase runs the suggestion flows. Results are returned, never stored.
type SuggestUseCase struct {
	repo    interfaces.Repository
	schemas *config.StageSchemas
	llm     gollem.LLMClient
}

func NewSuggestUseCase(repo interfaces.Repository, schemas *config.StageSchemas, llm gollem.LLMClient) *SuggestUseCase {
	return &SuggestUseCase{
		repo:    repo,
		schemas: schemas,
		llm:     llm,
	}
}

// Enabled reports whether a model client is configured
func (uc *SuggestUseCase) Enabled() bool {
	return uc.llm != nil
}

func (uc *SuggestUseCase) SuggestStage(ctx context.Context, projectID types.ProjectID, stage types.Stage) (*suggest.StageSuggestion, error) {
	if uc.llm == nil {
		return nil, goerr.Wrap(ErrLLMNotConfigured, "stage suggestion is unavailable")
	}
	schema, err := stageSchema(uc.schemas, stage)
	if err != nil {
		return nil, err
	}

	pc, err := loadProjectContext(ctx, uc.repo, uc.schemas, projectID)
	if err != nil {
		return nil, err
	}

	input := &suggest.StageInput{
		Project: suggest.NewProjectSummary(pc.project),
		Schema:  schema,
		Current: suggest.NewStageNote(schema, pc.records[stage]),
		Others: lo.Filter(pc.notes, func(n suggest.StageNote, _ int) bool {
			return n.Stage != stage
		}),
	}

	out, err := suggest.Run(ctx, uc.llm, suggest.NewStageFlow(schema), input)
	if err != nil {
		return nil, goerr.Wrap(err, "stage suggestion failed", goerr.V(ProjectIDKey, projectID), goerr.V(StageKey, stage))
	}
	return out, nil
}

func (uc *SuggestUseCase) AnalyzeRisks(ctx context.Context, projectID types.ProjectID) (*suggest.RiskAnalysis, error) {
	if uc.llm == nil {
		return nil, goerr.Wrap(ErrLLMNotConfigured, "risk analysis is unavailable")
	}

	pc, err := loadProjectContext(ctx, uc.repo, uc.schemas, projectID)
	if err != nil {
		return nil, err
	}

	input := &suggest.RiskAnalysisInput{
		Project:  suggest.NewProjectSummary(pc.project),
		Stages:   pc.notes,
		Existing: lo.Map(pc.risks, func(r *model.RiskEntry, _ int) suggest.RiskNote { return suggest.NewRiskNote(r) }),
		MaxRisks: suggest.DefaultMaxRisks,
	}

	out, err := suggest.Run(ctx, uc.llm, suggest.NewRiskAnalysisFlow(), input)
	if err != nil {
		return nil, goerr.Wrap(err, "risk analysis failed", goerr.V(ProjectIDKey, projectID))
	}
	return out, nil
}

func (uc *SuggestUseCase) MapControls(ctx context.Context, projectID types.ProjectID, riskID types.RiskID) (*suggest.ControlMapping, error) {
	if uc.llm == nil {
		return nil, goerr.Wrap(ErrLLMNotConfigured, "control mapping is unavailable")
	}

	project, err := loadProject(ctx, uc.repo, projectID)
	if err != nil {
		return nil, err
	}
	entry, err := uc.repo.Risk().Get(ctx, projectID, riskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}

	input := &suggest.ControlMappingInput{
		Project: suggest.NewProjectSummary(project),
		Risk:    suggest.NewRiskNote(entry),
		Catalog: model.ControlCatalog(),
	}

	out, err := suggest.Run(ctx, uc.llm, suggest.NewControlMappingFlow(), input)
	if err != nil {
		return nil, goerr.Wrap(err, "control mapping failed", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}
	return out, nil
}

// ClassifyRisk proposes the regulatory risk category from the basic-info and design stages
func (uc *SuggestUseCase) ClassifyRisk(ctx context.Context, projectID types.ProjectID) (*suggest.Classification, error) {
	if uc.llm == nil {
		return nil, goerr.Wrap(ErrLLMNotConfigured, "risk classification is unavailable")
	}

	pc, err := loadProjectContext(ctx, uc.repo, uc.schemas, projectID)
	if err != nil {
		return nil, err
	}

	basic := pc.note(types.StageBasicInfo)
	input := &suggest.ClassificationInput{
		Project:           suggest.NewProjectSummary(pc.project),
		DataCategories:    basic.Field("data_categories"),
		DeploymentContext: basic.Field("deployment_context"),
		HumanOversight:    pc.note(types.StageDesign).Field("human_oversight"),
	}

	out, err := suggest.Run(ctx, uc.llm, suggest.NewClassificationFlow(), input)
	if err != nil {
		return nil, goerr.Wrap(err, "risk classification failed", goerr.V(ProjectIDKey, projectID))
	}
	return out, nil
}

// projectContext is everything a prompt may need about one project
type projectContext struct {
	project *model.Project
	records map[types.Stage]*model.StageRecord
	notes   []suggest.StageNote // saved stages in lifecycle order, empty ones skipped
	risks   []*model.RiskEntry  // sorted by level
}

func (pc *projectContext) note(stage types.Stage) suggest.StageNote {
	for _, n := range pc.notes {
		if n.Stage == stage {
			return n
		}
	}
	return suggest.StageNote{Stage: stage}
}

func loadProjectContext(ctx context.Context, repo interfaces.Repository, schemas *config.StageSchemas, projectID types.ProjectID) (*projectContext, error) {
	project, err := loadProject(ctx, repo, projectID)
	if err != nil {
		return nil, err
	}
	pc := &projectContext{
		project: project,
		records: make(map[types.Stage]*model.StageRecord),
	}

	var records []*model.StageRecord
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		records, err = repo.Stage().List(egCtx, projectID)
		if err != nil {
			return goerr.Wrap(err, "failed to list stages")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		pc.risks, err = listRisks(egCtx, repo, projectID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to load project context", goerr.V(ProjectIDKey, projectID))
	}

	for _, r := range records {
		pc.records[r.Stage] = r
	}
	for _, schema := range schemas.List() {
		record, ok := pc.records[schema.Stage]
		if !ok {
			continue
		}
		if note := suggest.NewStageNote(schema, record); len(note.Fields) > 0 {
			pc.notes = append(pc.notes, note)
		}
	}
	return pc, nil
}
