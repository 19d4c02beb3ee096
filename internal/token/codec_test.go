package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptacademy/backend/domain"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", "promptacademy-test")
	require.NoError(t, err)
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec("", "issuer")
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	issued := domain.SessionClaims{
		SubjectID: "user-123",
		Email:     "alice@example.com",
		Role:      domain.RoleAdmin,
	}

	raw, err := codec.Issue(issued, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	verified, err := codec.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, issued.SubjectID, verified.SubjectID)
	assert.Equal(t, issued.Email, verified.Email)
	assert.Equal(t, issued.Role, verified.Role)
	assert.False(t, verified.IssuedAt.IsZero())
	assert.True(t, verified.ExpiresAt.After(time.Now()))
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Issue(domain.SessionClaims{
		SubjectID: "user-123",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
	}, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestVerifyUsesCodecClock(t *testing.T) {
	codec := newTestCodec(t)
	base := time.Now()

	codec.now = func() time.Time { return base }
	raw, err := codec.Issue(domain.SessionClaims{
		SubjectID: "user-123",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
	}, time.Hour)
	require.NoError(t, err)

	// still inside the window per the codec's clock
	codec.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = codec.Verify(raw)
	require.NoError(t, err)

	// past the window per the codec's clock, regardless of wall time
	codec.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = codec.Verify(raw)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("another-secret", "promptacademy-test")
	require.NoError(t, err)

	raw, err := other.Issue(domain.SessionClaims{
		SubjectID: "user-123",
		Role:      domain.RoleUser,
	}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	codec := newTestCodec(t)

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9."} {
		_, err := codec.Verify(raw)
		assert.Error(t, err, "token %q", raw)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Issue(domain.SessionClaims{
		SubjectID: "user-123",
		Role:      domain.RoleUser,
	}, time.Hour)
	require.NoError(t, err)

	tampered := []byte(raw)
	tampered[len(tampered)/2] ^= 0x01

	_, err = codec.Verify(string(tampered))
	require.Error(t, err)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Issue(domain.SessionClaims{
		SubjectID: "user-123",
		Role:      domain.Role("SUPERUSER"),
	}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.Error(t, err)
}
