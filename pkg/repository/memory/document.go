package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type documentRepository struct {
	mu   sync.RWMutex
	docs map[types.ProjectID]map[types.DocumentID]*model.Document
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		docs: make(map[types.ProjectID]map[types.DocumentID]*model.Document),
	}
}

// copyDocument drops Body; it lives in blob storage
func copyDocument(d *model.Document) *model.Document {
	c := d.Copy()
	c.Body = ""
	return c
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ProjectID]; !exists {
		r.docs[doc.ProjectID] = make(map[types.DocumentID]*model.Document)
	}

	created := copyDocument(doc)
	if created.ID == "" {
		created.ID = types.NewDocumentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now()
	}

	r.docs[created.ProjectID][created.ID] = created
	return copyDocument(created), nil
}

func (r *documentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.docs[projectID][id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "document not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}
	return copyDocument(doc), nil
}

func (r *documentRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0, len(r.docs[projectID]))
	for _, doc := range r.docs[projectID] {
		docs = append(docs, copyDocument(doc))
	}

	slices.SortFunc(docs, func(a, b *model.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.Revision - a.Revision
	})
	return docs, nil
}

func (r *documentRepository) Latest(ctx context.Context, projectID types.ProjectID, kind types.DocumentKind) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.Document
	for _, doc := range r.docs[projectID] {
		if doc.Kind != kind {
			continue
		}
		if latest == nil || doc.Revision > latest.Revision {
			latest = doc
		}
	}
	if latest == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "document not found",
			goerr.V("project_id", projectID),
			goerr.V("kind", kind))
	}
	return copyDocument(latest), nil
}
