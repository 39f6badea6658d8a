package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func TestNoAuthnUseCase(t *testing.T) {
	sub := "dev-user"
	email := "test@example.com"
	name := "Test User"

	uc := usecase.NewNoAuthnUseCase(sub, email, name)

	t.Run("Authenticate returns specified user", func(t *testing.T) {
		user, err := uc.Authenticate(context.Background(), "")
		gt.NoError(t, err).Required()

		gt.Value(t, user.ID).Equal(types.UserID(sub))
		gt.Value(t, user.Email).Equal(email)
		gt.Value(t, user.Name).Equal(name)
	})

	t.Run("returned user is a copy", func(t *testing.T) {
		user, err := uc.Authenticate(context.Background(), "any")
		gt.NoError(t, err).Required()
		user.Name = "changed"

		again, err := uc.Authenticate(context.Background(), "any")
		gt.NoError(t, err).Required()
		gt.Value(t, again.Name).Equal(name)
	})

	t.Run("IsNoAuthn returns true", func(t *testing.T) {
		gt.Bool(t, uc.IsNoAuthn()).True()
	})
}

func TestNoAuthnUseCaseImplementsInterface(t *testing.T) {
	var _ usecase.AuthUseCaseInterface = usecase.NewNoAuthnUseCase("sub", "email", "name")
}
