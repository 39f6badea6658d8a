package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/samber/lo"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/storage"
	"github.com/secmon-lab/themis/pkg/service/suggest"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

const markdownContentType = "text/markdown; charset=utf-8"

type DocumentUseCase struct {
	repo      interfaces.Repository
	schemas   *config.StageSchemas
	llm       gollem.LLMClient
	blobs     interfaces.BlobStore
	modelName string
}

// NewDocumentUseCase creates the use case. A nil blob store falls back to process memory.
func NewDocumentUseCase(repo interfaces.Repository, schemas *config.StageSchemas, llm gollem.LLMClient, blobs interfaces.BlobStore, modelName string) *DocumentUseCase {
	if blobs == nil {
		blobs = storage.NewMemory()
	}
	return &DocumentUseCase{
		repo:      repo,
		schemas:   schemas,
		llm:       llm,
		blobs:     blobs,
		modelName: modelName,
	}
}

// GenerateDocument writes a new revision of a document kind. The previous revision, if any, is linked.
func (uc *DocumentUseCase) GenerateDocument(ctx context.Context, projectID types.ProjectID, kind types.DocumentKind) (*model.Document, error) {
	if uc.llm == nil {
		return nil, goerr.Wrap(ErrLLMNotConfigured, "document generation is unavailable")
	}
	if !kind.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidOptionID, "unknown document kind", goerr.V("kind", kind))
	}
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	pc, err := loadProjectContext(ctx, uc.repo, uc.schemas, projectID)
	if err != nil {
		return nil, err
	}

	input := suggest.NewDocumentInput(kind,
		suggest.NewProjectSummary(pc.project),
		pc.notes,
		lo.Map(pc.risks, func(r *model.RiskEntry, _ int) suggest.RiskNote { return suggest.NewRiskNote(r) }),
	)
	draft, err := suggest.Run(ctx, uc.llm, suggest.NewDocumentFlow(), input)
	if err != nil {
		return nil, goerr.Wrap(err, "document generation failed", goerr.V(ProjectIDKey, projectID), goerr.V("kind", kind))
	}

	doc := &model.Document{
		ID:        types.NewDocumentID(),
		ProjectID: projectID,
		Kind:      kind,
		Title:     draft.Title,
		Body:      draft.Markdown(),
		Revision:  1,
		Model:     uc.modelName,
		CreatedBy: user.ID,
	}

	previous, err := uc.repo.Document().Latest(ctx, projectID, kind)
	switch {
	case err == nil:
		doc.Revision = previous.Revision + 1
		doc.PreviousID = previous.ID
	case !errors.Is(err, model.ErrNotFound):
		return nil, goerr.Wrap(err, "failed to get previous revision", goerr.V(ProjectIDKey, projectID), goerr.V("kind", kind))
	}

	// metadata must never point at a missing body
	if err := uc.blobs.Put(ctx, doc.BodyPath(), []byte(doc.Body), markdownContentType); err != nil {
		return nil, goerr.Wrap(err, "failed to store document body", goerr.V(DocumentIDKey, doc.ID))
	}

	created, err := uc.repo.Document().Create(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store document", goerr.V(DocumentIDKey, doc.ID))
	}
	created.Body = doc.Body

	logging.From(ctx).Info("document generated",
		"project_id", projectID,
		"kind", kind,
		"revision", created.Revision,
		"document_id", created.ID)
	return created, nil
}

// GetDocument returns metadata and body
func (uc *DocumentUseCase) GetDocument(ctx context.Context, projectID types.ProjectID, documentID types.DocumentID) (*model.Document, error) {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}
	return uc.getWithBody(ctx, projectID, documentID)
}

func (uc *DocumentUseCase) getWithBody(ctx context.Context, projectID types.ProjectID, documentID types.DocumentID) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, projectID, documentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document", goerr.V(ProjectIDKey, projectID), goerr.V(DocumentIDKey, documentID))
	}

	body, err := uc.blobs.Get(ctx, doc.BodyPath())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document body", goerr.V(DocumentIDKey, documentID))
	}
	doc.Body = string(body)
	return doc, nil
}

// ListDocuments returns metadata only, newest first
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, projectID types.ProjectID) ([]*model.Document, error) {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}
	docs, err := uc.repo.Document().List(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V(ProjectIDKey, projectID))
	}
	return docs, nil
}

// DiffDocuments compares two revisions of the same project. An empty fromID means the previous revision of toID.
func (uc *DocumentUseCase) DiffDocuments(ctx context.Context, projectID types.ProjectID, fromID, toID types.DocumentID) (*model.DocumentDiff, error) {
	if _, err := loadProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}

	to, err := uc.getWithBody(ctx, projectID, toID)
	if err != nil {
		return nil, err
	}

	if fromID == "" {
		fromID = to.PreviousID
	}
	from := &model.Document{}
	if fromID != "" {
		if from, err = uc.getWithBody(ctx, projectID, fromID); err != nil {
			return nil, err
		}
	}

	return model.Diff(from, to), nil
}
