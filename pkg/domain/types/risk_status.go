package types

import "fmt"

// RiskStatus represents the treatment status of a risk register entry
type RiskStatus string

const (
	RiskStatusIdentified RiskStatus = "identified"
	RiskStatusMitigating RiskStatus = "mitigating"
	RiskStatusAccepted   RiskStatus = "accepted"
	RiskStatusClosed     RiskStatus = "closed"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusIdentified,
		RiskStatusMitigating,
		RiskStatusAccepted,
		RiskStatusClosed,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusIdentified,
		RiskStatusMitigating,
		RiskStatusAccepted,
		RiskStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as RiskStatusIdentified
func (s RiskStatus) Normalize() RiskStatus {
	if s == "" {
		return RiskStatusIdentified
	}
	return s
}

func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
