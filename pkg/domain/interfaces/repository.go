package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Project() ProjectRepository
	Stage() StageRepository
	Risk() RiskRepository
	Document() DocumentRepository

	Close() error
}
