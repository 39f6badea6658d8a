package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
)

// DefaultNotifyThreshold is the risk level from which a notification is sent
const DefaultNotifyThreshold = 15

type UseCases struct {
	repo            interfaces.Repository
	schemas         *config.StageSchemas
	llm             gollem.LLMClient
	blobs           interfaces.BlobStore
	notifier        interfaces.Notifier
	notifyThreshold int
	modelName       string

	Project  *ProjectUseCase
	Stage    *StageUseCase
	Risk     *RiskUseCase
	Suggest  *SuggestUseCase
	Document *DocumentUseCase
	Auth     AuthUseCaseInterface
}

type Option func(*UseCases)

func WithStageSchemas(schemas *config.StageSchemas) Option {
	return func(uc *UseCases) {
		uc.schemas = schemas
	}
}

// WithLLM enables suggestion flows and document generation. modelName is recorded on generated documents.
func WithLLM(llm gollem.LLMClient, modelName string) Option {
	return func(uc *UseCases) {
		uc.llm = llm
		uc.modelName = modelName
	}
}

func WithBlobStore(blobs interfaces.BlobStore) Option {
	return func(uc *UseCases) {
		uc.blobs = blobs
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithNotifyThreshold(level int) Option {
	return func(uc *UseCases) {
		uc.notifyThreshold = level
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		schemas:         config.NewStageSchemas(),
		notifyThreshold: DefaultNotifyThreshold,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Project = NewProjectUseCase(repo, uc.schemas)
	uc.Stage = NewStageUseCase(repo, uc.schemas)
	uc.Risk = NewRiskUseCase(repo, uc.notifier, uc.notifyThreshold)
	uc.Suggest = NewSuggestUseCase(repo, uc.schemas, uc.llm)
	uc.Document = NewDocumentUseCase(repo, uc.schemas, uc.llm, uc.blobs, uc.modelName)

	return uc
}
