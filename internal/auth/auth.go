// Package auth carries the authenticated caller through a request.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/pkg/jwtutil"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the logged-in user as recorded in the session token
type Identity struct {
	UserID   uint
	Username string
	FullName string
	Role     model.Role

	// TokenID identifies the session token so it can be revoked
	TokenID   string
	ExpiresAt time.Time
}

// Anonymous is the identity of a caller without a session
var Anonymous = Identity{}

// FromClaims builds an identity from validated session claims
func FromClaims(claims *jwtutil.SessionClaims) Identity {
	id := Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		FullName: claims.FullName,
		Role:     model.Role(claims.Role),
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// FromUser builds an identity for a freshly authenticated user
func FromUser(user *model.User) Identity {
	return Identity{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}
}

func (i Identity) IsAuthenticated() bool { return i.UserID != 0 }

func (i Identity) IsAdmin() bool { return i.Role == model.RoleAdmin }

// HasRole reports whether the identity may act as role. Admins pass every role check.
func (i Identity) HasRole(role model.Role) bool {
	if !i.IsAuthenticated() {
		return false
	}
	return i.Role == role || i.IsAdmin()
}

// DisplayName is the name snapshotted into orders and matched against vendor names
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, or Anonymous
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the bcrypt hash
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
