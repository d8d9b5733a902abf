package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
)

// Built-in policy names.
const (
	PolicyAdmin = "Admin"
	PolicyUser  = "User"
)

// Predicate decides whether already-validated claims satisfy a policy.
type Predicate func(claims *Claims) bool

// Policy is a named predicate over token claims.
type Policy struct {
	Name      string
	Predicate Predicate
}

// RequireRoles builds a policy admitting any of the given roles.
func RequireRoles(name string, roles ...models.Role) Policy {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return Policy{
		Name: name,
		Predicate: func(c *Claims) bool {
			_, ok := allowed[c.Role]
			return ok
		},
	}
}

// DefaultPolicies returns the Admin-only and any-authenticated policies.
func DefaultPolicies() []Policy {
	return []Policy{
		RequireRoles(PolicyAdmin, models.RoleAdmin),
		RequireRoles(PolicyUser, models.RoleUser, models.RoleAdmin),
	}
}

// PolicyAuthorizer evaluates named policies. The table is fixed at
// construction; Check has no side effects and is safe for concurrent use.
type PolicyAuthorizer struct {
	policies map[string]Policy
}

// NewPolicyAuthorizer registers policies, rejecting blank names, nil
// predicates and duplicates.
func NewPolicyAuthorizer(policies ...Policy) (*PolicyAuthorizer, error) {
	table := make(map[string]Policy, len(policies))
	for _, p := range policies {
		if p.Name == "" {
			return nil, errors.New("policy with empty name")
		}
		if p.Predicate == nil {
			return nil, fmt.Errorf("policy %q has no predicate", p.Name)
		}
		if _, dup := table[p.Name]; dup {
			return nil, fmt.Errorf("policy %q registered twice", p.Name)
		}
		table[p.Name] = p
	}
	return &PolicyAuthorizer{policies: table}, nil
}

// Check evaluates the named policy against claims. Token validity must have
// been established by TokenIssuer.Validate beforehand.
func (a *PolicyAuthorizer) Check(name string, claims *Claims) (bool, error) {
	p, ok := a.policies[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownPolicy, name)
	}
	if claims == nil {
		return false, nil
	}
	return p.Predicate(claims), nil
}

// Require fails if any name is not registered. Call it at startup for every
// policy a transport refers to.
func (a *PolicyAuthorizer) Require(names ...string) error {
	for _, name := range names {
		if _, ok := a.policies[name]; !ok {
			return fmt.Errorf("%w: %q", common.ErrUnknownPolicy, name)
		}
	}
	return nil
}
