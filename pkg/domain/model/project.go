package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

const maxProjectNameLength = 200

// Project is one AI system tracked through its lifecycle
type Project struct {
	ID           types.ProjectID
	OwnerID      types.UserID
	Name         string
	Version      string
	CustomerRef  string
	Description  string
	UseCase      string
	SystemType   types.SystemType
	RiskCategory types.RiskCategory
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks required fields and enum values
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return goerr.Wrap(ErrMissingRequired, "project name is required", goerr.V(FieldIDKey, "name"))
	}
	if utf8.RuneCountInString(p.Name) > maxProjectNameLength {
		return goerr.Wrap(ErrInvalidFieldData, "project name is too long",
			goerr.V(FieldIDKey, "name"),
			goerr.V("max", maxProjectNameLength))
	}
	if strings.TrimSpace(p.Version) == "" {
		return goerr.Wrap(ErrMissingRequired, "project version is required", goerr.V(FieldIDKey, "version"))
	}
	if strings.TrimSpace(p.UseCase) == "" {
		return goerr.Wrap(ErrMissingRequired, "project use case is required", goerr.V(FieldIDKey, "use_case"))
	}
	if !p.SystemType.IsValid() {
		return goerr.Wrap(ErrInvalidOptionID, "invalid system type",
			goerr.V(FieldIDKey, "system_type"),
			goerr.V(OptionIDKey, p.SystemType))
	}
	if !p.RiskCategory.IsValid() {
		return goerr.Wrap(ErrInvalidOptionID, "invalid risk category",
			goerr.V(FieldIDKey, "risk_category"),
			goerr.V(OptionIDKey, p.RiskCategory))
	}
	return nil
}

// Copy returns a deep copy of the project
func (p *Project) Copy() *Project {
	c := *p
	return &c
}
