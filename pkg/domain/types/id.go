package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ProjectID identifies a project (one AI system under management)
type ProjectID string

// NewProjectID generates a new random ProjectID
func NewProjectID() ProjectID {
	return ProjectID(uuid.NewString())
}

// Validate checks if the ProjectID is a UUID
func (id ProjectID) Validate() error {
	return validateUUID("project", string(id))
}

func (id ProjectID) String() string {
	return string(id)
}

// RiskID identifies an entry of a project's risk register
type RiskID string

// NewRiskID generates a new random RiskID
func NewRiskID() RiskID {
	return RiskID(uuid.NewString())
}

// Validate checks if the RiskID is a UUID
func (id RiskID) Validate() error {
	return validateUUID("risk", string(id))
}

func (id RiskID) String() string {
	return string(id)
}

// DocumentID identifies one revision of a generated document
type DocumentID string

// NewDocumentID generates a new random DocumentID
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// Validate checks if the DocumentID is a UUID
func (id DocumentID) Validate() error {
	return validateUUID("document", string(id))
}

func (id DocumentID) String() string {
	return string(id)
}

// UserID is the subject of the identity provider token
type UserID string

func (id UserID) String() string {
	return string(id)
}

func validateUUID(kind, s string) error {
	if s == "" {
		return goerr.New(kind+" ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return goerr.Wrap(err, kind+" ID must be a UUID", goerr.V("id", s))
	}
	return nil
}
