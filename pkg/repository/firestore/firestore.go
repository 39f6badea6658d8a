package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

// Firestore stores projects in a top-level collection and everything else in its subcollections:
// projects/{projectID}/stages/{stage}, projects/{projectID}/risks/{riskID}, projects/{projectID}/documents/{documentID}
type Firestore struct {
	client   *firestore.Client
	project  *projectRepository
	stage    *stageRepository
	risk     *riskRepository
	document *documentRepository

	collectionPrefix string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates the top-level collection, e.g. for tests sharing one database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.project = &projectRepository{root: f}
	f.stage = &stageRepository{root: f}
	f.risk = &riskRepository{root: f}
	f.document = &documentRepository{root: f}

	return f, nil
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Stage() interfaces.StageRepository {
	return f.stage
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.document
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// ProjectsCollection returns the top-level collection name including the prefix
func ProjectsCollection(prefix string) string {
	if prefix != "" {
		return prefix + "_projects"
	}
	return "projects"
}

func (f *Firestore) projects() *firestore.CollectionRef {
	return f.client.Collection(ProjectsCollection(f.collectionPrefix))
}

func (f *Firestore) projectDoc(id string) *firestore.DocumentRef {
	return f.projects().Doc(id)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
