package domain

import "time"

// SessionClaims is the identity payload embedded in a signed session token.
// A token is the sole carrier of a session; there is no server-side record.
// Claims are immutable once issued and implicitly expire with the token.
type SessionClaims struct {
	SubjectID string    `json:"sub"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Expired reports whether the claims are past their expiry at the given
// reference time.
func (c SessionClaims) Expired(reference time.Time) bool {
	if reference.IsZero() {
		reference = time.Now()
	}
	return !c.ExpiresAt.After(reference)
}
