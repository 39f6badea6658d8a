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

type projectRepository struct {
	root *Firestore
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	created := p.Copy()
	if created.ID == "" {
		created.ID = types.NewProjectID()
	}
	ts := now()
	created.CreatedAt = ts
	created.UpdatedAt = ts

	if _, err := r.root.projectDoc(created.ID.String()).Create(ctx, created); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(err, "project already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create project", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *projectRepository) Get(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	docSnap, err := r.root.projectDoc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("id", id))
	}

	var p model.Project
	if err := docSnap.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to decode project", goerr.V("id", id))
	}
	return &p, nil
}

func (r *projectRepository) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	docRef := r.root.projectDoc(p.ID.String())

	var updated *model.Project
	err := r.root.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "project not found", goerr.V("id", p.ID))
			}
			return goerr.Wrap(err, "failed to check project existence", goerr.V("id", p.ID))
		}

		createdAt, err := docSnap.DataAt("CreatedAt")
		if err != nil {
			return goerr.Wrap(err, "failed to read project creation time", goerr.V("id", p.ID))
		}

		updated = p.Copy()
		if t, ok := createdAt.(time.Time); ok {
			updated.CreatedAt = t
		}
		updated.UpdatedAt = now()
		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V("id", p.ID))
	}

	return updated, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Project, error) {
	iter := r.root.projects().
		Where("OwnerID", "==", ownerID.String()).
		OrderBy("UpdatedAt", firestore.Desc).
		Documents(ctx)
	return collectProjects(iter)
}

func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	return collectProjects(r.root.projects().OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx))
}

func collectProjects(iter *firestore.DocumentIterator) ([]*model.Project, error) {
	defer iter.Stop()

	projects := make([]*model.Project, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects")
		}

		var p model.Project
		if err := docSnap.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to decode project", goerr.V("doc_id", docSnap.Ref.ID))
		}
		projects = append(projects, &p)
	}

	return projects, nil
}
