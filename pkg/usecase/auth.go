package usecase

import (
	"context"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// AuthUseCaseInterface turns a bearer token into the calling user
type AuthUseCaseInterface interface {
	Authenticate(ctx context.Context, rawToken string) (*auth.User, error)
	IsNoAuthn() bool
}

// AuthUseCase verifies ID tokens issued by the hosted identity provider.
// Sign-in, sign-up and password reset happen at the provider; only verification is done here.
type AuthUseCase struct {
	jwksURL  string
	issuer   string
	audience string
	cache    *keySetCache
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithIssuer requires the iss claim to match
func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithAudience requires the aud claim to contain audience
func WithAudience(audience string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.audience = audience
	}
}

func NewAuthUseCase(jwksURL string, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		jwksURL: jwksURL,
		cache:   newKeySetCache(),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// Authenticate verifies signature, expiry, issuer and audience of an ID token
func (uc *AuthUseCase) Authenticate(ctx context.Context, rawToken string) (*auth.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "token is empty")
	}

	keySet, err := uc.keySet(ctx)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParseOption{
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(10),
	}
	if uc.issuer != "" {
		opts = append(opts, jwt.WithIssuer(uc.issuer))
	}
	if uc.audience != "" {
		opts = append(opts, jwt.WithAudience(uc.audience))
	}

	token, err := jwt.Parse([]byte(rawToken), opts...)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "failed to verify token", goerr.V("cause", err.Error()))
	}

	if token.Subject() == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "sub claim is empty")
	}

	user := &auth.User{ID: types.UserID(token.Subject())}
	if email, ok := token.Get("email"); ok {
		user.Email, _ = email.(string)
	}
	if name, ok := token.Get("name"); ok {
		user.Name, _ = name.(string)
	}
	return user, nil
}

func (uc *AuthUseCase) keySet(ctx context.Context) (jwk.Set, error) {
	if set, ok := uc.cache.get(uc.jwksURL); ok {
		return set, nil
	}

	set, err := jwk.Fetch(ctx, uc.jwksURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch provider public keys", goerr.V("jwks_url", uc.jwksURL))
	}
	uc.cache.set(uc.jwksURL, set)
	return set, nil
}

// IsNoAuthn returns false for AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
