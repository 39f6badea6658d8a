package memory

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps everything in process memory. Used for development and tests.
type Memory struct {
	project  *projectRepository
	stage    *stageRepository
	risk     *riskRepository
	document *documentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		project:  newProjectRepository(),
		stage:    newStageRepository(),
		risk:     newRiskRepository(),
		document: newDocumentRepository(),
	}
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Stage() interfaces.StageRepository {
	return m.stage
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) Close() error {
	return nil
}

// now matches the microsecond precision of Firestore timestamps
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
