package types

import "fmt"

// SystemType is the technical kind of an AI system
type SystemType string

const (
	SystemTypeClassification SystemType = "classification"
	SystemTypeRegression     SystemType = "regression"
	SystemTypeGenerative     SystemType = "generative"
	SystemTypeRecommendation SystemType = "recommendation"
	SystemTypeComputerVision SystemType = "computer-vision"
	SystemTypeNLP            SystemType = "nlp"
	SystemTypeAutonomous     SystemType = "autonomous"
	SystemTypeOther          SystemType = "other"
)

// AllSystemTypes returns all valid system types
func AllSystemTypes() []SystemType {
	return []SystemType{
		SystemTypeClassification,
		SystemTypeRegression,
		SystemTypeGenerative,
		SystemTypeRecommendation,
		SystemTypeComputerVision,
		SystemTypeNLP,
		SystemTypeAutonomous,
		SystemTypeOther,
	}
}

// IsValid checks if the system type is valid
func (s SystemType) IsValid() bool {
	for _, v := range AllSystemTypes() {
		if s == v {
			return true
		}
	}
	return false
}

func (s SystemType) String() string {
	return string(s)
}

// ParseSystemType parses a string into a SystemType
func ParseSystemType(s string) (SystemType, error) {
	v := SystemType(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid system type: %s", s)
	}
	return v, nil
}
