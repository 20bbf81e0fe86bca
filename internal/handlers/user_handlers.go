package handlers

import (
	"context"
	"net/http"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/pkg/httputil"
)

// UserSearcher looks users up by partial email.
type UserSearcher interface {
	Search(ctx context.Context, query string) ([]models.User, error)
}

type UserHandlers struct {
	users UserSearcher
}

func NewUserHandlers(users UserSearcher) *UserHandlers {
	return &UserHandlers{users: users}
}

// HandleSearchUsers handles GET /v1/users?q=.
func (h *UserHandlers) HandleSearchUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	users, err := h.users.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, "SearchUsers", err)
		return
	}

	resp := make([]models.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, models.NewUserResponse(&users[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
