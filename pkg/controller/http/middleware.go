package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// authMiddleware resolves the caller from the Authorization header and puts it into the context
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				writeError(w, r, goerr.New("authentication is not configured"), http.StatusUnauthorized)
				return
			}

			var token string
			if !authUC.IsNoAuthn() {
				var ok bool
				token, ok = bearerToken(r)
				if !ok {
					writeError(w, r, goerr.New("authentication required"), http.StatusUnauthorized)
					return
				}
			}

			user, err := authUC.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, r, goerr.Wrap(err, "invalid authentication token"), http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
