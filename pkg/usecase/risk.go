package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/suggest"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// RiskInput is the editable part of a risk register entry
type RiskInput struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    types.RiskEntryCategory `json:"category"`
	Likelihood  types.Score             `json:"likelihood"`
	Impact      types.Score             `json:"impact"`
	Mitigations []string                `json:"mitigations"`
	Controls    []types.ControlID       `json:"controls"`
	Status      types.RiskStatus        `json:"status"`
	Owner       string                  `json:"owner"`
}

func (in RiskInput) apply(entry *model.RiskEntry) {
	entry.Title = in.Title
	entry.Description = in.Description
	entry.Category = in.Category
	entry.Likelihood = in.Likelihood
	entry.Impact = in.Impact
	entry.Mitigations = in.Mitigations
	entry.Controls = in.Controls
	entry.Status = in.Status
	entry.Owner = in.Owner
}

type RiskUseCase struct {
	repo      interfaces.Repository
	notifier  interfaces.Notifier
	threshold types.RiskLevel
}

func NewRiskUseCase(repo interfaces.Repository, notifier interfaces.Notifier, threshold int) *RiskUseCase {
	return &RiskUseCase{
		repo:      repo,
		notifier:  notifier,
		threshold: types.RiskLevel(threshold),
	}
}

func (uc *RiskUseCase) CreateRisk(ctx context.Context, projectID types.ProjectID, in RiskInput) (*model.RiskEntry, error) {
	project, err := loadProject(ctx, uc.repo, projectID)
	if err != nil {
		return nil, err
	}

	entry := &model.RiskEntry{ProjectID: projectID, Source: model.RiskSourceManual}
	in.apply(entry)

	created, err := uc.create(ctx, entry)
	if err != nil {
		return nil, err
	}
	uc.notifyIfHigh(ctx, project, created, 0)
	return created, nil
}

func (uc *RiskUseCase) create(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error) {
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk entry", goerr.V(ProjectIDKey, entry.ProjectID))
	}

	created, err := uc.repo.Risk().Create(ctx, entry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V(ProjectIDKey, entry.ProjectID))
	}
	return created, nil
}

// UpdateRisk replaces the editable fields. Source and CreatedAt are kept.
func (uc *RiskUseCase) UpdateRisk(ctx context.Context, projectID types.ProjectID, riskID types.RiskID, in RiskInput) (*model.RiskEntry, error) {
	project, err := loadProject(ctx, uc.repo, projectID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.repo.Risk().Get(ctx, projectID, riskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}
	before := entry.Level()

	in.apply(entry)
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk entry", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}

	updated, err := uc.repo.Risk().Update(ctx, entry)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}
	uc.notifyIfHigh(ctx, project, updated, before)
	return updated, nil
}

func (uc *RiskUseCase) DeleteRisk(ctx context.Context, projectID types.ProjectID, riskID types.RiskID) error {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return err
	}
	if err := uc.repo.Risk().Delete(ctx, projectID, riskID); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}
	return nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, projectID types.ProjectID, riskID types.RiskID) (*model.RiskEntry, error) {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}
	entry, err := uc.repo.Risk().Get(ctx, projectID, riskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(ProjectIDKey, projectID), goerr.V(RiskIDKey, riskID))
	}
	return entry, nil
}

// ListRisks returns the register sorted by level, highest first, then by title
func (uc *RiskUseCase) ListRisks(ctx context.Context, projectID types.ProjectID) ([]*model.RiskEntry, error) {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}
	return listRisks(ctx, uc.repo, projectID)
}

func listRisks(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID) ([]*model.RiskEntry, error) {
	risks, err := repo.Risk().List(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V(ProjectIDKey, projectID))
	}
	model.SortRisks(risks)
	return risks, nil
}

func (uc *RiskUseCase) Summary(ctx context.Context, projectID types.ProjectID) (*model.RiskSummary, error) {
	risks, err := uc.ListRisks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return model.SummarizeRisks(risks), nil
}

// AcceptRiskSuggestions stores risks proposed by the risk analysis flow.
// Every suggestion is validated before anything is written.
func (uc *RiskUseCase) AcceptRiskSuggestions(ctx context.Context, projectID types.ProjectID, suggestions []suggest.SuggestedRisk) ([]*model.RiskEntry, error) {
	project, err := loadProject(ctx, uc.repo, projectID)
	if err != nil {
		return nil, err
	}

	entries := lo.Map(suggestions, func(s suggest.SuggestedRisk, _ int) *model.RiskEntry {
		return s.ToEntry(projectID)
	})
	for i, entry := range entries {
		entry.Normalize()
		if err := entry.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid risk suggestion", goerr.V(ProjectIDKey, projectID), goerr.V("index", i))
		}
	}

	created := make([]*model.RiskEntry, 0, len(entries))
	for _, entry := range entries {
		stored, err := uc.create(ctx, entry)
		if err != nil {
			return created, err
		}
		created = append(created, stored)
		uc.notifyIfHigh(ctx, project, stored, 0)
	}

	logging.From(ctx).Info("risk suggestions accepted",
		"project_id", projectID,
		"count", len(created))
	return created, nil
}

// notifyIfHigh posts a notification when the entry crosses the threshold. Failures are only logged.
func (uc *RiskUseCase) notifyIfHigh(ctx context.Context, project *model.Project, entry *model.RiskEntry, before types.RiskLevel) {
	if uc.notifier == nil || uc.threshold <= 0 {
		return
	}
	if entry.Level() < uc.threshold || before >= uc.threshold {
		return
	}

	p, e := project.Copy(), entry.Copy()
	async.Dispatch(ctx, "notify-high-risk", func(ctx context.Context) error {
		if err := uc.notifier.NotifyHighRisk(ctx, p, e); err != nil {
			return goerr.Wrap(err, "failed to notify high risk",
				goerr.V(ProjectIDKey, p.ID),
				goerr.V(RiskIDKey, e.ID))
		}
		return nil
	})
}
