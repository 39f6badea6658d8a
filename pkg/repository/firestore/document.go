package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// documentDoc is model.Document without Body
type documentDoc struct {
	ID         string    `firestore:"ID"`
	ProjectID  string    `firestore:"ProjectID"`
	Kind       string    `firestore:"Kind"`
	Title      string    `firestore:"Title"`
	Revision   int       `firestore:"Revision"`
	PreviousID string    `firestore:"PreviousID"`
	Model      string    `firestore:"Model"`
	CreatedBy  string    `firestore:"CreatedBy"`
	CreatedAt  time.Time `firestore:"CreatedAt"`
}

func toDocumentDoc(d *model.Document) *documentDoc {
	return &documentDoc{
		ID:         d.ID.String(),
		ProjectID:  d.ProjectID.String(),
		Kind:       d.Kind.String(),
		Title:      d.Title,
		Revision:   d.Revision,
		PreviousID: d.PreviousID.String(),
		Model:      d.Model,
		CreatedBy:  d.CreatedBy.String(),
		CreatedAt:  d.CreatedAt,
	}
}

func fromDocumentDoc(d *documentDoc) *model.Document {
	return &model.Document{
		ID:         types.DocumentID(d.ID),
		ProjectID:  types.ProjectID(d.ProjectID),
		Kind:       types.DocumentKind(d.Kind),
		Title:      d.Title,
		Revision:   d.Revision,
		PreviousID: types.DocumentID(d.PreviousID),
		Model:      d.Model,
		CreatedBy:  types.UserID(d.CreatedBy),
		CreatedAt:  d.CreatedAt,
	}
}

func docToDocument(snap *firestore.DocumentSnapshot) (*model.Document, error) {
	var d documentDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return fromDocumentDoc(&d), nil
}

type documentRepository struct {
	root *Firestore
}

func (r *documentRepository) documents(projectID types.ProjectID) *firestore.CollectionRef {
	return r.root.projectDoc(projectID.String()).Collection("documents")
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	created := doc.Copy()
	created.Body = ""
	if created.ID == "" {
		created.ID = types.NewDocumentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now()
	}

	if _, err := r.documents(created.ProjectID).Doc(created.ID.String()).Set(ctx, toDocumentDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create document",
			goerr.V("project_id", created.ProjectID),
			goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *documentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.DocumentID) (*model.Document, error) {
	snap, err := r.documents(projectID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "document not found",
				goerr.V("project_id", projectID),
				goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	doc, err := docToDocument(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
	}
	return doc, nil
}

func (r *documentRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Document, error) {
	iter := r.documents(projectID).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	docs := make([]*model.Document, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V("project_id", projectID))
		}

		doc, err := docToDocument(snap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", snap.Ref.ID))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *documentRepository) Latest(ctx context.Context, projectID types.ProjectID, kind types.DocumentKind) (*model.Document, error) {
	iter := r.documents(projectID).
		Where("Kind", "==", kind.String()).
		OrderBy("Revision", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrNotFound, "document not found",
			goerr.V("project_id", projectID),
			goerr.V("kind", kind))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest document",
			goerr.V("project_id", projectID),
			goerr.V("kind", kind))
	}

	doc, err := docToDocument(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", snap.Ref.ID))
	}
	return doc, nil
}
