package http

import (
	"net/http"

	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/usecase"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type userMeResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, r, usecase.ErrUnauthenticated, http.StatusUnauthorized)
		return
	}

	writeJSON(w, r, http.StatusOK, userMeResponse{
		Sub:   user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}
