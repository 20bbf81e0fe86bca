package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "tutorhub-backend"

// ErrInvalidCredential is returned for any token that fails verification:
// malformed, badly signed, expired or missing the identity claims.
var ErrInvalidCredential = errors.New("invalid credential")

// ErrTokenExpired wraps ErrInvalidCredential for expired tokens.
var ErrTokenExpired = fmt.Errorf("%w: token has expired", ErrInvalidCredential)

// Identity is the verified caller, as carried by an access token.
type Identity struct {
	UserID int64
	Email  string
}

// IsZero reports whether no identity is present.
func (i Identity) IsZero() bool {
	return i.UserID == 0 && i.Email == ""
}

// --- JWT Claims ---

// CustomClaims includes standard JWT claims plus our custom ones.
type CustomClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a new JWT access token for the identity.
// It returns the signed token and its expiry.
func NewAccessToken(id Identity, jwtSecret string, expiration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiration)
	claims := CustomClaims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", id.UserID),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("Error signing JWT token for UserID %d: %v", id.UserID, err)
		return "", time.Time{}, err
	}

	return signedToken, expiresAt, nil
}

// Verify parses and validates a bearer token and returns the identity it carries.
func Verify(tokenString, jwtSecret string) (Identity, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidCredential
	}

	if claims.UserID <= 0 || claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: missing identity claims", ErrInvalidCredential)
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
