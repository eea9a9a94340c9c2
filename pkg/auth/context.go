package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey int

const (
	// Context key for the JWT claims of the authenticated caller
	contextClaimsKey contextKey = iota
)

// Actor identifies who performed a control tower command.
type Actor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SystemActor attributes entries produced by internal scheduled processes.
// It is never resolved from a user request.
var SystemActor = Actor{ID: "system", DisplayName: "system"}

func (a Actor) IsSystem() bool {
	return a.ID == SystemActor.ID
}

// SetClaimsInContext stores the caller's JWT claims in the request context.
func SetClaimsInContext(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, contextClaimsKey, claims)
}

// GetClaimsFromContext retrieves the JWT claims of the authenticated caller.
func GetClaimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to get jwt claims from context")
	}
	return claims, nil
}

func GetUsernameFromClaims(claims jwt.MapClaims) string {
	if claims["username"] != nil {
		return claims["username"].(string)
	}
	if claims["preferred_username"] != nil {
		return claims["preferred_username"].(string)
	}
	return ""
}

func GetAccountIdFromClaims(claims jwt.MapClaims) string {
	if claims["account_id"] != nil {
		return claims["account_id"].(string)
	}
	if claims["sub"] != nil {
		return claims["sub"].(string)
	}
	return ""
}

func GetOrgIdFromClaims(claims jwt.MapClaims) string {
	if claims["org_id"] != nil {
		return claims["org_id"].(string)
	}
	return ""
}
