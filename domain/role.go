package domain

// Role classifies an authenticated identity for access-control decisions.
// It is attached to claims at issuance time; later changes to a user's
// stored role do not affect tokens already in flight.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// In reports whether r is a member of the given role set.
func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
