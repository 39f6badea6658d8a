package usecase

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// NoAuthnUseCase authenticates every request as one fixed user (for development/testing)
type NoAuthnUseCase struct {
	user auth.User
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase instance with specified user info
func NewNoAuthnUseCase(sub, email, name string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		user: auth.User{
			ID:    types.UserID(sub),
			Email: email,
			Name:  name,
		},
	}
}

// Authenticate ignores the token and returns the configured user
func (uc *NoAuthnUseCase) Authenticate(ctx context.Context, rawToken string) (*auth.User, error) {
	user := uc.user
	return &user, nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
