package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Roles issued by the reservations API.
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleProfesor = "ROLE_PROFESOR"
)

// Domain errors
var (
	ErrMalformedCredential = errors.New("credential is not a decodable compact token")
	ErrMissingIdentity     = errors.New("credential payload has no subject")
)

// Claims is the identity recovered from a credential: who the session belongs to
// and which roles it carries. Roles may be empty; Identity never is.
type Claims struct {
	Identity string
	Roles    mapset.Set[string]
}

// HasRole reports whether the claim set carries the given role.
// PRE: none
// POST: Returns false for a zero-value Claims
func (c Claims) HasRole(role string) bool {
	return c.Roles != nil && c.Roles.Contains(role)
}

var segmentDecoder = jwt.NewParser()

// Decode parses a compact dot-separated credential into Claims without verifying
// its signature. Authenticity is the remote API's problem: it rejects invalid or
// expired credentials on every authenticated call.
//
// The payload's "roles" field may arrive as a comma-separated string or as a JSON
// array; both normalise to a set so the ambiguity never leaves this package.
// PRE: none
// POST: Returns Claims with a non-empty Identity, or an error
func Decode(credential string) (Claims, error) {
	segments := strings.Split(credential, ".")
	if len(segments) < 2 {
		return Claims{}, ErrMalformedCredential
	}

	raw, err := segmentDecoder.DecodeSegment(segments[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	var payload jwt.MapClaims
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	identity, err := payload.GetSubject()
	if err != nil || identity == "" {
		return Claims{}, ErrMissingIdentity
	}

	roles := mapset.NewSet[string]()
	switch v := payload["roles"].(type) {
	case string:
		for _, role := range strings.Split(v, ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles.Add(role)
			}
		}
	case []any:
		for _, entry := range v {
			if role, ok := entry.(string); ok {
				roles.Add(role)
			}
		}
	}

	return Claims{Identity: identity, Roles: roles}, nil
}
