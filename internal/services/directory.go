package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/normalize"
	"tutorhub-backend/internal/store"
)

// maxSearchResults caps GET /v1/users.
const maxSearchResults = 50

// UserDirectory resolves the identifiers clients send (numeric ids or emails)
// into stored users. It never creates or modifies users.
type UserDirectory struct {
	store store.Store
}

func NewUserDirectory(s store.Store) *UserDirectory {
	return &UserDirectory{store: s}
}

// ResolveIDByEmail returns the id of the user registered with email.
func (d *UserDirectory) ResolveIDByEmail(ctx context.Context, email string) (int64, error) {
	u, err := d.byEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// Resolve accepts either a positive numeric id or an email address.
func (d *UserDirectory) Resolve(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: user identifier is required", ErrValidation)
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		if id <= 0 {
			return nil, fmt.Errorf("%w: user id must be positive", ErrValidation)
		}
		return d.byID(ctx, id)
	}
	if !strings.Contains(identifier, "@") {
		return nil, fmt.Errorf("%w: %q is neither a user id nor an email", ErrValidation, identifier)
	}
	return d.byEmail(ctx, identifier)
}

// DisplayName returns the current display name of a user.
func (d *UserDirectory) DisplayName(ctx context.Context, id int64) (string, error) {
	u, err := d.byID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.DisplayName(), nil
}

// Search lists users whose email contains query.
func (d *UserDirectory) Search(ctx context.Context, query string) ([]models.User, error) {
	users, err := d.store.SearchUsersByEmail(ctx, normalize.Email(query), maxSearchResults)
	if err != nil {
		return nil, unavailable("search users", err)
	}
	return users, nil
}

func (d *UserDirectory) byEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalize.Email(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	u, err := d.store.GetUserByEmail(ctx, email)
	return d.found(u, err, "resolve user by email")
}

func (d *UserDirectory) byID(ctx context.Context, id int64) (*models.User, error) {
	u, err := d.store.GetUserByID(ctx, id)
	return d.found(u, err, "resolve user by id")
}

func (d *UserDirectory) found(u *models.User, err error, op string) (*models.User, error) {
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrRecipientOrSenderNotFound
	default:
		return nil, unavailable(op, err)
	}
}
