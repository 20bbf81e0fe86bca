package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/config"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/normalize"
	"tutorhub-backend/internal/store"

	"github.com/samber/lo"
)

// SignupParams carries the fields accepted at registration.
type SignupParams struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Major     *string
	Minor     *string
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

type AuthService struct {
	store store.Store
	cfg   *config.Config
}

func NewAuthService(s store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
	}
}

// Signup registers a new user.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (*models.User, error) {
	email := normalize.Email(p.Email)
	if email == "" || p.Password == "" {
		return nil, fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}

	hashedPassword, err := auth.HashPassword(p.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		log.Printf("ERROR [AuthService] Signup: hashing password for %s: %v", email, err)
		return nil, ErrHashingPassword
	}

	user, err := s.store.CreateUser(ctx, store.CreateUserParams{
		Email:          email,
		HashedPassword: hashedPassword,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Major:          p.Major,
		Minor:          p.Minor,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		log.Printf("ERROR [AuthService] Signup: creating user %s: %v", email, err)
		return nil, unavailable("create user", err)
	}

	log.Printf("[AuthService] Signup: registered user %s (ID: %d)", email, user.ID)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't reveal whether the user exists.
			return nil, ErrInvalidCredentials
		}
		log.Printf("ERROR [AuthService] Login: retrieving user %s: %v", email, err)
		return nil, unavailable("get user", err)
	}

	if err := auth.VerifyPassword(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Printf("WARN [AuthService] Login: unusable password hash for user %d: %v", user.ID, err)
		}
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := auth.NewAccessToken(auth.Identity{UserID: user.ID, Email: user.Email}, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		log.Printf("ERROR [AuthService] Login: generating JWT for user %d: %v", user.ID, err)
		return nil, ErrCreatingToken
	}

	log.Printf("[AuthService] Login: user %s (ID: %d)", email, user.ID)
	return &Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// Profile returns the stored user behind a verified identity.
func (s *AuthService) Profile(ctx context.Context, caller auth.Identity) (*models.User, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.GetUserByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRecipientOrSenderNotFound
		}
		return nil, unavailable("get user", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's own profile fields. Display names are derived
// at read time, so the new name shows up in every inbox and conversation.
func (s *AuthService) UpdateProfile(ctx context.Context, caller auth.Identity, p store.UpdateUserParams) (*models.User, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		return lo.ToPtr(strings.TrimSpace(*v))
	}
	p = store.UpdateUserParams{
		FirstName: trim(p.FirstName),
		LastName:  trim(p.LastName),
		Major:     trim(p.Major),
		Minor:     trim(p.Minor),
	}

	user, err := s.store.UpdateUser(ctx, caller.UserID, p)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRecipientOrSenderNotFound
		}
		log.Printf("ERROR [AuthService] UpdateProfile: updating user %d: %v", caller.UserID, err)
		return nil, unavailable("update user", err)
	}

	log.Printf("[AuthService] UpdateProfile: updated user %d", user.ID)
	return user, nil
}
