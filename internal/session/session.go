// Package session resolves the branch scope of a request from its bearer
// token. The payload is decoded WITHOUT signature verification: the branch
// id is a display/scoping convenience only, and every forwarded call still
// carries the raw token for the upstream API to verify. Nothing here is an
// authorization check.
package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeBranch extracts the branch_id claim from a bearer token's payload
// segment. It fails open: any malformed token, or one without a branch
// claim, yields ok=false (the "no branch" state) rather than an error the
// caller must classify.
func DecodeBranch(token string) (string, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", false
	}
	raw, ok := claims["branch_id"]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		return fmt.Sprintf("%.0f", v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
