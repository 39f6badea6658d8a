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

type riskRepository struct {
	root *Firestore
}

func (r *riskRepository) risks(projectID types.ProjectID) *firestore.CollectionRef {
	return r.root.projectDoc(projectID.String()).Collection("risks")
}

func (r *riskRepository) Create(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error) {
	created := entry.Copy()
	if created.ID == "" {
		created.ID = types.NewRiskID()
	}
	ts := now()
	created.CreatedAt = ts
	created.UpdatedAt = ts

	if _, err := r.risks(created.ProjectID).Doc(created.ID.String()).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk",
			goerr.V("project_id", created.ProjectID),
			goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *riskRepository) Get(ctx context.Context, projectID types.ProjectID, id types.RiskID) (*model.RiskEntry, error) {
	docSnap, err := r.risks(projectID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "risk not found",
				goerr.V("project_id", projectID),
				goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var entry model.RiskEntry
	if err := docSnap.DataTo(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk", goerr.V("id", id))
	}
	return &entry, nil
}

func (r *riskRepository) Update(ctx context.Context, entry *model.RiskEntry) (*model.RiskEntry, error) {
	docRef := r.risks(entry.ProjectID).Doc(entry.ID.String())

	var updated *model.RiskEntry
	err := r.root.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V("id", entry.ID))
			}
			return goerr.Wrap(err, "failed to check risk existence", goerr.V("id", entry.ID))
		}

		updated = entry.Copy()
		if createdAt, err := docSnap.DataAt("CreatedAt"); err == nil {
			if t, ok := createdAt.(time.Time); ok {
				updated.CreatedAt = t
			}
		}
		updated.UpdatedAt = now()
		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk",
			goerr.V("project_id", entry.ProjectID),
			goerr.V("id", entry.ID))
	}
	return updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.RiskID) error {
	docRef := r.risks(projectID).Doc(id.String())

	// Check if document exists
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check risk existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}
	return nil
}

func (r *riskRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.RiskEntry, error) {
	iter := r.risks(projectID).Documents(ctx)
	defer iter.Stop()

	risks := make([]*model.RiskEntry, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks", goerr.V("project_id", projectID))
		}

		var entry model.RiskEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode risk", goerr.V("doc_id", docSnap.Ref.ID))
		}
		risks = append(risks, &entry)
	}
	return risks, nil
}
