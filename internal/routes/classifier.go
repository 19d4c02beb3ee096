// Package routes decides the access class of a request path: public,
// authenticated-only, or restricted to specific roles.
package routes

import (
	"strings"

	"github.com/promptacademy/backend/domain"
)

// Access is the classification result for a path.
type Access struct {
	Public bool
	// RequiredRoles is nil for public paths and for protected paths that
	// accept any authenticated caller.
	RequiredRoles []domain.Role
}

// Rule maps a path prefix to the roles allowed under it. Rules are scanned
// in declaration order and the first match wins, so ordering is part of the
// configuration contract.
type Rule struct {
	Prefix string
	Roles  []domain.Role
}

// Classifier holds the static access tables. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	public []string
	rules  []Rule
}

// NewClassifier builds a classifier from an ordered public-path list and an
// ordered role-rule table.
func NewClassifier(public []string, rules []Rule) *Classifier {
	return &Classifier{
		public: append([]string(nil), public...),
		rules:  append([]Rule(nil), rules...),
	}
}

// DefaultClassifier returns the platform's access tables: the liveness
// endpoint, auth endpoints, and landing pages are public, the admin surfaces
// require ADMIN, and the dashboard accepts any signed-in role.
func DefaultClassifier() *Classifier {
	return NewClassifier(
		[]string{
			"/",
			"/health",
			"/login",
			"/signup",
			"/forgot-password",
			"/api/auth/login",
			"/api/auth/signup",
			"/api/auth/refresh",
			"/api/search",
		},
		[]Rule{
			{Prefix: "/admin", Roles: []domain.Role{domain.RoleAdmin}},
			{Prefix: "/dashboard", Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}},
			{Prefix: "/api/admin", Roles: []domain.Role{domain.RoleAdmin}},
		},
	)
}

// Classify resolves the access class of path. Public declarations are
// checked first and take precedence over any role rule covering the same
// prefix. A path matched by no table is protected but role-agnostic.
func (c *Classifier) Classify(path string) Access {
	for _, prefix := range c.public {
		if matchPrefix(path, prefix) {
			return Access{Public: true}
		}
	}
	for _, rule := range c.rules {
		if matchPrefix(path, rule.Prefix) {
			return Access{RequiredRoles: rule.Roles}
		}
	}
	return Access{}
}

// IsAPI reports whether path belongs to the API surface, which is the only
// surface subject to rate limiting and JSON error responses.
func IsAPI(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// matchPrefix is a plain prefix match, except that a bare "/" entry matches
// only the root path itself. Every path starts with "/", so prefix semantics
// for it would make the whole site public.
func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, prefix)
}
