package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/services"
	"tutorhub-backend/internal/store"
	"tutorhub-backend/pkg/httputil"
)

// AuthService defines the interface expected from the auth service.
type AuthService interface {
	Signup(ctx context.Context, p services.SignupParams) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Profile(ctx context.Context, caller auth.Identity) (*models.User, error)
	UpdateProfile(ctx context.Context, caller auth.Identity, p store.UpdateUserParams) (*models.User, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authSvc AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
	}
}

// HandleSignup handles the POST /v1/auth/signup request.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.Signup(r.Context(), services.SignupParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Major:     req.Major,
		Minor:     req.Minor,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrHashingPassword):
			httputil.RespondError(w, http.StatusInternalServerError, "Signup failed due to an internal error")
		default:
			respondServiceError(w, "Signup", err)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.NewUserResponse(user))
}

// HandleLogin handles the POST /v1/auth/login request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrCreatingToken):
			log.Printf("ERROR Login: %v", err)
			httputil.RespondError(w, http.StatusInternalServerError, "Login failed due to an internal error")
		default:
			respondServiceError(w, "Login", err)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
		User:        models.NewUserResponse(session.User),
	})
}

// HandleProfile handles GET /v1/profile.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Profile(r.Context(), caller)
	if err != nil {
		respondServiceError(w, "Profile", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.NewUserResponse(user))
}

// HandleUpdateProfile handles PUT /v1/profile. Omitted fields are left unchanged
// and an empty string clears the field.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), caller, store.UpdateUserParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Major:     req.Major,
		Minor:     req.Minor,
	})
	if err != nil {
		respondServiceError(w, "UpdateProfile", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.NewUserResponse(user))
}
