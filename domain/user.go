package domain

import "time"

// User represents a registered identity in the platform. The gateway only
// touches users at login/signup time; per-request authorization relies on
// SessionClaims alone.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims builds the session claims issued for this user. Timestamps are
// filled in by the token codec from the requested TTL.
func (u *User) Claims() SessionClaims {
	return SessionClaims{
		SubjectID: u.ID,
		Email:     u.Email,
		Role:      u.Role,
	}
}
