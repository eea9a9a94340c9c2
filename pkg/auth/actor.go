package auth

import (
	"context"

	"github.com/hirewire/control-tower/pkg/errors"
)

// ResolveActor resolves the acting user from the request context claims.
// Absence of an actor is a hard failure: user-triggered commands are never
// attributed to the system actor.
func ResolveActor(ctx context.Context) (Actor, *errors.ServiceError) {
	claims, err := GetClaimsFromContext(ctx)
	if err != nil {
		return Actor{}, errors.UnauthorizedActor("")
	}

	id := GetAccountIdFromClaims(claims)
	name := GetUsernameFromClaims(claims)
	if id == "" || name == "" {
		return Actor{}, errors.UnauthorizedActor("")
	}

	return Actor{ID: id, DisplayName: name}, nil
}
