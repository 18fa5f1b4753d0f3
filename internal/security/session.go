package security

import (
	"context"
	"errors"
	"fmt"

	"reservation-backoffice/internal/domain"
)

// UserLookup loads the current state of a session's user
type UserLookup interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

// SessionResolver turns a bearer token into the caller identity. The token only names the
// user: role and commission are read from storage on every request, so reassignments and
// deletions apply to sessions that were already issued.
type SessionResolver struct {
	tokens TokenManager
	users  UserLookup
}

func NewSessionResolver(tokens TokenManager, users UserLookup) *SessionResolver {
	return &SessionResolver{tokens: tokens, users: users}
}

// Resolve returns an AuthError for invalid tokens and for users that no longer exist
func (r *SessionResolver) Resolve(ctx context.Context, token string) (domain.ActorContext, error) {
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return domain.ActorContext{}, domain.NewAuthError("invalid or expired session")
	}
	u, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ActorContext{}, domain.NewAuthError("session user no longer exists")
		}
		return domain.ActorContext{}, fmt.Errorf("failed to load session user %d: %w", claims.UserID, err)
	}
	return u.Actor(), nil
}
