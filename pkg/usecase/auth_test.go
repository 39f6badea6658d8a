package usecase_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

type testIssuer struct {
	key     jwk.Key
	server  *httptest.Server
	fetches atomic.Int32
}

func newTestIssuer(t *testing.T) *testIssuer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	gt.NoError(t, err).Required()

	key, err := jwk.FromRaw(raw)
	gt.NoError(t, err).Required()
	gt.NoError(t, key.Set(jwk.KeyIDKey, "test-key")).Required()
	gt.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256)).Required()

	pub, err := jwk.PublicKeyOf(key)
	gt.NoError(t, err).Required()

	set := jwk.NewSet()
	gt.NoError(t, set.AddKey(pub)).Required()

	issuer := &testIssuer{key: key}
	issuer.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issuer.fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(issuer.server.Close)

	return issuer
}

func (i *testIssuer) sign(t *testing.T, build func(b *jwt.Builder) *jwt.Builder) string {
	t.Helper()

	b := jwt.NewBuilder().
		Issuer("https://issuer.example.com").
		Audience([]string{"themis"}).
		Subject("user-1").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Claim("email", "alice@example.com").
		Claim("name", "Alice")
	if build != nil {
		b = build(b)
	}

	tok, err := b.Build()
	gt.NoError(t, err).Required()

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, i.key))
	gt.NoError(t, err).Required()
	return string(signed)
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	issuer := newTestIssuer(t)
	uc := usecase.NewAuthUseCase(issuer.server.URL,
		usecase.WithIssuer("https://issuer.example.com"),
		usecase.WithAudience("themis"),
	)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		user, err := uc.Authenticate(ctx, issuer.sign(t, nil))
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal(types.UserID("user-1"))
		gt.Value(t, user.Email).Equal("alice@example.com")
		gt.Value(t, user.Name).Equal("Alice")
	})

	t.Run("key set is cached", func(t *testing.T) {
		_, err := uc.Authenticate(ctx, issuer.sign(t, nil))
		gt.NoError(t, err).Required()
		gt.Number(t, issuer.fetches.Load()).Equal(1)
	})

	invalid := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "empty",
			token: func(t *testing.T) string { return "" },
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return issuer.sign(t, func(b *jwt.Builder) *jwt.Builder {
					return b.Expiration(time.Now().Add(-time.Hour))
				})
			},
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				return issuer.sign(t, func(b *jwt.Builder) *jwt.Builder {
					return b.Audience([]string{"other-app"})
				})
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				return issuer.sign(t, func(b *jwt.Builder) *jwt.Builder {
					return b.Issuer("https://evil.example.com")
				})
			},
		},
		{
			name: "signed by another key",
			token: func(t *testing.T) string {
				return newTestIssuer(t).sign(t, nil)
			},
		},
		{
			name: "no subject",
			token: func(t *testing.T) string {
				return issuer.sign(t, func(b *jwt.Builder) *jwt.Builder {
					return b.Subject("")
				})
			},
		},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Authenticate(ctx, tt.token(t))
			gt.Error(t, err).Is(usecase.ErrUnauthenticated)
		})
	}

	t.Run("IsNoAuthn returns false", func(t *testing.T) {
		gt.Bool(t, uc.IsNoAuthn()).False()
	})
}
