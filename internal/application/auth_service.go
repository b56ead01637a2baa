package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
	"github.com/LewisCM14/allotment-sub001/pkg/redact"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. Minted together at login, registration and refresh.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AuthService orchestrates credential checks, token issuance and
// token-based identity resolution.
//
// Failure semantics: credential mismatches are silent (ErrInvalidCredentials
// plus a generic log line that never reveals whether the account exists);
// malformed or expired tokens are loud 401s; a valid token referencing a
// deleted account is a distinct 404.
type AuthService struct {
	Users  repository.UserRepository
	Codec  *tokens.Codec
	Logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, codec *tokens.Codec, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Codec: codec, Logger: logger}
}

// Authenticate validates email/password. On success it advances the
// account's last-active timestamp as part of the same flow. On any
// mismatch it returns ErrInvalidCredentials; unknown email and wrong
// password are indistinguishable to callers and in logs. Persistence
// failures are not mismatches and propagate unchanged.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			helpers.LogInfo(s.Logger, "authentication failed", logrus.Fields{"email": redact.Email(email)})
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if u == nil {
		helpers.LogInfo(s.Logger, "authentication failed", logrus.Fields{"email": redact.Email(email)})
		return nil, apperrors.ErrInvalidCredentials
	}
	if !helpers.CheckPassword(password, u.Password) {
		helpers.LogInfo(s.Logger, "authentication failed", logrus.Fields{"email": redact.Email(email)})
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.Users.UpdateLastActive(ctx, u.ID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u.LastActive = &now
	return u, nil
}

// IssueLoginTokens mints one access and one refresh token for the account.
// This is the only place both are minted together under normal login.
func (s *AuthService) IssueLoginTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.Codec.Issue(u.ID, tokens.KindAccess, 0)
	if err != nil {
		helpers.LogError(s.Logger, "issue access token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, apperrors.Wrap(err)
	}
	refresh, rexp, err := s.Codec.Issue(u.ID, tokens.KindRefresh, 0)
	if err != nil {
		helpers.LogError(s.Logger, "issue refresh token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, apperrors.Wrap(err)
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

// Refresh exchanges a refresh token for a brand-new access+refresh pair.
// The presented token must decode, carry kind "refresh" and a subject, and
// the subject must still resolve to an account. The old refresh token is
// not revoked; it stays cryptographically valid until natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, *entity.User, error) {
	claims, err := s.Codec.Decode(refreshToken)
	if err != nil {
		return TokenPair{}, nil, err
	}
	if claims.Kind != tokens.KindRefresh {
		return TokenPair{}, nil, apperrors.ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, nil, err
	}
	pair, err := s.IssueLoginTokens(u)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, u, nil
}

// ResolveIdentity authenticates a request from its Authorization header.
// The scheme match is case-insensitive; a missing header, wrong scheme or
// empty token value fails before any decode is attempted. Only access
// tokens are accepted here: a refresh (or link) token presented as a bearer
// credential is rejected as invalid.
func (s *AuthService) ResolveIdentity(ctx context.Context, bearerHeader string) (*entity.User, error) {
	raw, err := ParseBearer(bearerHeader)
	if err != nil {
		return nil, err
	}
	claims, err := s.Codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.Kind != tokens.KindAccess {
		return nil, apperrors.ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ParseBearer extracts the token value from an "Authorization: Bearer x"
// header.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrInvalidToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.ErrInvalidToken
	}
	return parts[1], nil
}
