// Package auth implements the credential flows that sit outside the
// gateway's hot path: exchanging email/password for a signed token pair,
// refreshing an access token, and recording the surrounding audit events.
package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/promptacademy/backend/domain"
	"github.com/promptacademy/backend/internal/analytics"
	"github.com/promptacademy/backend/internal/token"
	"github.com/promptacademy/backend/repository"
)

// TokenPair bundles the two credentials issued per login: a short-lived
// access token and a long-lived refresh token.
type TokenPair struct {
	Access  string
	Refresh string
}

type UseCase struct {
	users      repository.UserRepository
	codec      *token.Codec
	sink       analytics.Sink
	logger     *zap.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(
	users repository.UserRepository,
	codec *token.Codec,
	sink analytics.Sink,
	logger *zap.Logger,
	accessTTL, refreshTTL time.Duration,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &UseCase{
		users:      users,
		codec:      codec,
		sink:       sink,
		logger:     logger,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login verifies credentials and issues a fresh token pair. The error for a
// wrong password and an unknown email is the same on purpose.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Info("failed login attempt", zap.String("email", email))
		return nil, TokenPair{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		uc.logger.Info("failed login attempt", zap.String("email", email))
		return nil, TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, err := uc.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	uc.track(analytics.EventLogin, user.ID)
	return user, pair, nil
}

// Signup registers a new USER-role account and logs it straight in.
func (uc *UseCase) Signup(ctx context.Context, email, password, name string) (*domain.User, TokenPair, error) {
	if email == "" || len(password) < 6 {
		return nil, TokenPair{}, domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := uc.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	uc.track(analytics.EventSignup, user.ID)
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token without
// re-entering credentials. The refresh token itself is not rotated.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string) (domain.SessionClaims, string, error) {
	claims, err := uc.codec.Verify(refreshToken)
	if err != nil {
		return domain.SessionClaims{}, "", err
	}
	access, err := uc.codec.Issue(claims, uc.accessTTL)
	if err != nil {
		return domain.SessionClaims{}, "", err
	}
	return claims, access, nil
}

// Logout only records the event; the session dies with its cookies, which
// the handler clears.
func (uc *UseCase) Logout(ctx context.Context, claims domain.SessionClaims) {
	if claims.SubjectID != "" {
		uc.track(analytics.EventLogout, claims.SubjectID)
	}
}

// CurrentUser resolves the verified subject to its stored account.
func (uc *UseCase) CurrentUser(ctx context.Context, subjectID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, subjectID)
}

func (uc *UseCase) issuePair(user *domain.User) (TokenPair, error) {
	claims := user.Claims()
	access, err := uc.codec.Issue(claims, uc.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := uc.codec.Issue(claims, uc.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (uc *UseCase) track(name, userID string) {
	if uc.sink == nil {
		return
	}
	uc.sink.Track(analytics.Event{Name: name, UserID: userID})
}
