package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// currentUser returns the authenticated caller or ErrUnauthenticated
func currentUser(ctx context.Context) (*auth.User, error) {
	user := auth.UserFromContext(ctx)
	if user == nil || user.ID == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "no user in context")
	}
	return user, nil
}

// loadProject fetches a project and checks that the caller owns it.
// Every project-scoped operation goes through here.
func loadProject(ctx context.Context, repo interfaces.Repository, id types.ProjectID) (*model.Project, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	project, err := repo.Project().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(ProjectIDKey, id))
	}

	if project.OwnerID != user.ID {
		return nil, goerr.Wrap(ErrAccessDenied, "project belongs to another user",
			goerr.V(ProjectIDKey, id),
			goerr.V("user_id", user.ID))
	}
	return project, nil
}
