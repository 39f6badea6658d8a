package auth

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// User is the authenticated caller, taken from a verified identity token
type User struct {
	ID    types.UserID `json:"id"`
	Email string       `json:"email,omitempty"`
	Name  string       `json:"name,omitempty"`
}

type ctxUserKey struct{}

// ContextWithUser returns a context carrying the authenticated user
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, user)
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxUserKey{}).(*User)
	return user
}
