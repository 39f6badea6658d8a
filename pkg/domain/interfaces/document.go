package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// DocumentRepository stores generated document metadata. Body is not persisted here.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, projectID types.ProjectID, id types.DocumentID) (*model.Document, error)

	// List returns documents of the project, newest first
	List(ctx context.Context, projectID types.ProjectID) ([]*model.Document, error)

	// Latest returns the highest revision of a kind, or model.ErrNotFound
	Latest(ctx context.Context, projectID types.ProjectID, kind types.DocumentKind) (*model.Document, error)
}
