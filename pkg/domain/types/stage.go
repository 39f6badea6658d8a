package types

import "fmt"

// Stage is one phase of the AI system lifecycle. Each stage has its own form.
type Stage string

const (
	StageBasicInfo   Stage = "basic-info"
	StageDesign      Stage = "design"
	StageDevelopment Stage = "development"
	StageTraining    Stage = "training"
	StageValidation  Stage = "validation"
	StageDeployment  Stage = "deployment"
	StageOperation   Stage = "operation"
	StageRetirement  Stage = "retirement"
)

// AllStages returns all stages in lifecycle order
func AllStages() []Stage {
	return []Stage{
		StageBasicInfo,
		StageDesign,
		StageDevelopment,
		StageTraining,
		StageValidation,
		StageDeployment,
		StageOperation,
		StageRetirement,
	}
}

// IsValid checks if the stage is valid
func (s Stage) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the position of the stage in the lifecycle, or -1 if unknown
func (s Stage) Index() int {
	for i, v := range AllStages() {
		if s == v {
			return i
		}
	}
	return -1
}

func (s Stage) String() string {
	return string(s)
}

// ParseStage parses a string into a Stage
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid stage: %s", s)
	}
	return v, nil
}
