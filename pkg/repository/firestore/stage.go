package firestore

import (
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// stageDoc is the Firestore document of one stage record. Lists come back as []any and are normalized on read.
type stageDoc struct {
	ProjectID string         `firestore:"ProjectID"`
	Stage     string         `firestore:"Stage"`
	Values    map[string]any `firestore:"Values"`
	UpdatedBy string         `firestore:"UpdatedBy"`
	UpdatedAt time.Time      `firestore:"UpdatedAt"`
}

func toStageDoc(r *model.StageRecord) *stageDoc {
	return &stageDoc{
		ProjectID: r.ProjectID.String(),
		Stage:     r.Stage.String(),
		Values:    r.Values,
		UpdatedBy: r.UpdatedBy.String(),
		UpdatedAt: r.UpdatedAt,
	}
}

func fromStageDoc(d *stageDoc) *model.StageRecord {
	return &model.StageRecord{
		ProjectID: types.ProjectID(d.ProjectID),
		Stage:     types.Stage(d.Stage),
		Values:    model.NormalizeStageValues(d.Values),
		UpdatedBy: types.UserID(d.UpdatedBy),
		UpdatedAt: d.UpdatedAt,
	}
}

type stageRepository struct {
	root *Firestore
}

func (r *stageRepository) stages(projectID types.ProjectID) *firestore.CollectionRef {
	return r.root.projectDoc(projectID.String()).Collection("stages")
}

func (r *stageRepository) Get(ctx context.Context, projectID types.ProjectID, stage types.Stage) (*model.StageRecord, error) {
	docSnap, err := r.stages(projectID).Doc(stage.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "stage record not found",
				goerr.V("project_id", projectID),
				goerr.V("stage", stage))
		}
		return nil, goerr.Wrap(err, "failed to get stage record",
			goerr.V("project_id", projectID),
			goerr.V("stage", stage))
	}

	var d stageDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode stage record", goerr.V("stage", stage))
	}
	return fromStageDoc(&d), nil
}

func (r *stageRepository) Put(ctx context.Context, record *model.StageRecord) (*model.StageRecord, error) {
	stored := record.Copy()
	stored.UpdatedAt = now()

	if _, err := r.stages(stored.ProjectID).Doc(stored.Stage.String()).Set(ctx, toStageDoc(stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put stage record",
			goerr.V("project_id", stored.ProjectID),
			goerr.V("stage", stored.Stage))
	}
	return stored, nil
}

func (r *stageRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.StageRecord, error) {
	iter := r.stages(projectID).Documents(ctx)
	defer iter.Stop()

	records := make([]*model.StageRecord, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate stage records", goerr.V("project_id", projectID))
		}

		var d stageDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode stage record", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, fromStageDoc(&d))
	}

	slices.SortFunc(records, func(a, b *model.StageRecord) int {
		return a.Stage.Index() - b.Stage.Index()
	})
	return records, nil
}
