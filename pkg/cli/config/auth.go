package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds configuration of ID token verification
type Auth struct {
	jwksURL   string
	issuer    string
	audience  string
	noAuthUID string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-jwks-url",
			Usage:       "JWKS URL of the identity provider that issues ID tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_AUTH_JWKS_URL"),
			Destination: &x.jwksURL,
		},
		&cli.StringFlag{
			Name:        "auth-issuer",
			Usage:       "Required iss claim of ID tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_AUTH_ISSUER"),
			Destination: &x.issuer,
		},
		&cli.StringFlag{
			Name:        "auth-audience",
			Usage:       "Required aud claim of ID tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_AUTH_AUDIENCE"),
			Destination: &x.audience,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the given user ID (development only). Example: --no-auth=dev-user",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_NO_AUTH"),
			Destination: &x.noAuthUID,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("jwks_url", x.jwksURL),
		slog.String("issuer", x.issuer),
		slog.String("audience", x.audience),
		slog.Bool("no_auth", x.noAuthUID != ""),
	)
}

// IsNoAuthMode reports whether every request runs as a fixed user
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthUID != ""
}

// Configure returns the token verifier. --no-auth wins over the JWKS settings.
func (x *Auth) Configure() (usecase.AuthUseCaseInterface, error) {
	if x.noAuthUID != "" {
		return usecase.NewNoAuthnUseCase(x.noAuthUID, x.noAuthUID+"@localhost", x.noAuthUID), nil
	}

	if x.jwksURL == "" {
		return nil, goerr.New("auth-jwks-url is required unless --no-auth is set")
	}
	if x.audience == "" {
		return nil, goerr.New("auth-audience is required with auth-jwks-url", goerr.V("jwks_url", x.jwksURL))
	}

	var opts []usecase.AuthOption
	if x.issuer != "" {
		opts = append(opts, usecase.WithIssuer(x.issuer))
	}
	opts = append(opts, usecase.WithAudience(x.audience))

	return usecase.NewAuthUseCase(x.jwksURL, opts...), nil
}
