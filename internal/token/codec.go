// Package token signs and verifies the self-contained session tokens that
// carry caller identity between requests. Tokens are the sole session
// record: verification either yields full claims or fails, and nothing is
// looked up server-side.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/promptacademy/backend/domain"
)

type sessionClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed session tokens. It is stateless
// and safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCodec builds a codec from the shared signing secret. A missing secret
// is a configuration error and surfaces here, at startup, never per request.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is not configured")
	}
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue serializes claims into a signed token valid for ttl. IssuedAt and
// ExpiresAt on the input claims are ignored; the codec stamps its own.
func (c *Codec) Issue(claims domain.SessionClaims, ttl time.Duration) (string, error) {
	now := c.now()
	payload := sessionClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.SubjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.secret)
}

// Verify checks signature, structure, and expiry, returning the embedded
// claims. Every failure mode collapses into domain.ErrInvalidToken so the
// caller cannot distinguish which check rejected the token.
func (c *Codec) Verify(raw string) (domain.SessionClaims, error) {
	var payload sessionClaims
	parsed, err := jwt.ParseWithClaims(raw, &payload, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// expiry is checked below against the codec's own clock, not the
		// library's package-global one
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return domain.SessionClaims{}, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if !payload.VerifyExpiresAt(c.now(), true) {
		return domain.SessionClaims{}, domain.ErrInvalidToken
	}
	if !payload.Role.Valid() {
		return domain.SessionClaims{}, domain.ErrInvalidToken
	}

	claims := domain.SessionClaims{
		SubjectID: payload.Subject,
		Email:     payload.Email,
		Role:      payload.Role,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}
	return claims, nil
}
