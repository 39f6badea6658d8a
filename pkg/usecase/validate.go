package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ValidationIssue is one stored record that no longer passes validation
type ValidationIssue struct {
	ProjectID types.ProjectID
	Stage     types.Stage
	RiskID    types.RiskID
	Message   string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Projects int
	Records  int
	Issues   []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateDB re-validates every stored stage record and risk entry against
// the current stage configuration. Stage forms change over time, so records
// saved under an older configuration may carry removed fields or options.
// It does NOT modify any data.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	projects, err := uc.repo.Project().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}

	for _, project := range projects {
		result.Projects++

		records, err := uc.repo.Stage().List(ctx, project.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list stage records", goerr.V(ProjectIDKey, project.ID))
		}

		for _, record := range records {
			result.Records++

			schema, ok := uc.schemas.Get(record.Stage)
			if !ok {
				result.AddIssue(ValidationIssue{
					ProjectID: project.ID,
					Stage:     record.Stage,
					Message:   "stage form is not configured",
				})
				continue
			}

			if _, err := model.NewStageValidator(schema).Validate(record.Values); err != nil {
				result.AddIssue(ValidationIssue{
					ProjectID: project.ID,
					Stage:     record.Stage,
					Message:   err.Error(),
				})
			}
		}

		risks, err := uc.repo.Risk().List(ctx, project.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list risks", goerr.V(ProjectIDKey, project.ID))
		}
		for _, risk := range risks {
			result.Records++
			if err := risk.Validate(); err != nil {
				result.AddIssue(ValidationIssue{
					ProjectID: project.ID,
					RiskID:    risk.ID,
					Message:   err.Error(),
				})
			}
		}
	}

	return result, nil
}
