package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/config"
	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/internal/domain/repository"
	"github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
	"github.com/LewisCM14/allotment-sub001/pkg/mailer"
	"github.com/LewisCM14/allotment-sub001/pkg/redact"
)

func keyVerified(uid string) string { return "user:verified:" + uid }

// UserService owns the account lifecycle: registration, email verification,
// password reset and profile maintenance. Multi-step writes run inside a
// unit of work; outbound email is enqueued fire-and-forget after commit.
type UserService struct {
	UoW    *postgres.Manager
	Users  repository.UserRepository
	Auth   *AuthService
	Codec  *tokens.Codec
	Pub    *helpers.RabbitPublisher
	RDB    *redis.Client
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewUserService(uow *postgres.Manager, users repository.UserRepository, auth *AuthService,
	codec *tokens.Codec, pub *helpers.RabbitPublisher, rdb *redis.Client,
	cfg *config.Config, logger *logrus.Logger) *UserService {
	return &UserService{
		UoW: uow, Users: users, Auth: auth, Codec: codec,
		Pub: pub, RDB: rdb, Cfg: cfg, Logger: logger,
	}
}

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	CountryCode string
}

// Register creates a new account with default preferences in one
// transaction, then issues a login token pair and enqueues a verification
// email. A duplicate email surfaces as ErrEmailAlreadyRegistered.
func (s *UserService) Register(ctx context.Context, requestID string, in RegisterInput) (*entity.User, TokenPair, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		// bcrypt only fails on oversized input or a bad cost; bubble as a
		// wrapped internal error.
		return nil, TokenPair{}, apperrors.Wrap(err)
	}
	u := &entity.User{
		Email:       entity.NormalizeEmail(in.Email),
		Password:    hash,
		FirstName:   in.FirstName,
		CountryCode: in.CountryCode,
	}
	err = s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		if err := uow.Users.Create(ctx, u); err != nil {
			return err
		}
		return uow.Preferences.Upsert(ctx, entity.DefaultPreferences(u.ID))
	})
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.Auth.IssueLoginTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.sendVerificationEmail(ctx, u)
	return u, pair, nil
}

// RequestVerification issues a fresh verification link for the account.
// Already-verified accounts get an idempotent no-op.
func (s *UserService) RequestVerification(ctx context.Context, userID string) (alreadyVerified bool, err error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsEmailVerified {
		return true, nil
	}
	s.sendVerificationEmail(ctx, u)
	return false, nil
}

// VerificationStatus reports whether the account's email is verified,
// consulting the redis cache before the database.
func (s *UserService) VerificationStatus(ctx context.Context, userID string) (bool, error) {
	if s.RDB != nil {
		if v, _ := s.RDB.Get(ctx, keyVerified(userID)).Result(); v == "1" {
			return true, nil
		}
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsEmailVerified && s.RDB != nil {
		_ = s.RDB.Set(ctx, keyVerified(userID), "1", 0).Err()
	}
	return u.IsEmailVerified, nil
}

// VerifyEmail confirms ownership of the address from a verification-link
// token. The flag flip is monotonic and idempotent. When fromReset is set
// the flow was entered from a password-reset request for an unverified
// account, so a reset email is enqueued once the flag commits.
func (s *UserService) VerifyEmail(ctx context.Context, requestID, token string, fromReset bool) (*entity.User, error) {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != tokens.KindVerification {
		return nil, apperrors.ErrInvalidToken
	}
	var u *entity.User
	err = s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		if err := uow.Users.SetEmailVerified(ctx, claims.Subject); err != nil {
			return err
		}
		u, err = uow.Users.GetByID(ctx, claims.Subject)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.RDB != nil {
		_ = s.RDB.Set(ctx, keyVerified(u.ID), "1", 0).Err()
	}
	if fromReset {
		s.sendResetEmail(ctx, u)
	}
	return u, nil
}

// RequestPasswordReset enqueues a reset link for the account. Unknown
// emails are not an error: the response is success-shaped either way to
// avoid account enumeration. An unverified account gets a verification
// link instead (the verification flow chains into the reset email).
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		helpers.LogInfo(s.Logger, "password reset requested", logrus.Fields{"email": redact.Email(email), "known": false})
		return nil
	}
	if !u.IsEmailVerified {
		s.sendVerificationEmail(ctx, u)
		return nil
	}
	s.sendResetEmail(ctx, u)
	return nil
}

// ResetPassword sets a new password from a reset-link token.
func (s *UserService) ResetPassword(ctx context.Context, requestID, token, newPassword string) error {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return err
	}
	if claims.Kind != tokens.KindReset {
		return apperrors.ErrInvalidToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperrors.Wrap(err)
	}
	return s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		return uow.Users.UpdatePassword(ctx, claims.Subject, hash)
	})
}

// Profile fetches the account for display.
func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Users.GetByID(ctx, userID)
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FirstName   string
	CountryCode string
}

// UpdateProfile applies partial profile changes inside a unit of work.
func (s *UserService) UpdateProfile(ctx context.Context, requestID, userID string, in UpdateProfileInput) (*entity.User, error) {
	var u *entity.User
	err := s.UoW.Do(ctx, requestID, func(ctx context.Context, uow *postgres.UnitOfWork) error {
		var err error
		u, err = uow.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if in.FirstName != "" {
			u.FirstName = in.FirstName
		}
		if in.CountryCode != "" {
			u.CountryCode = in.CountryCode
		}
		return uow.Users.UpdateProfile(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) sendVerificationEmail(ctx context.Context, u *entity.User) {
	tok, _, err := s.Codec.Issue(u.ID, tokens.KindVerification, 0)
	if err != nil {
		helpers.LogError(s.Logger, "issue verification token failed", err, logrus.Fields{"user_id": u.ID})
		return
	}
	link := s.Cfg.VerifyEmailURL + "?token=" + tok
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateVerifyEmail,
		Data: map[string]any{
			"FirstName": u.FirstName,
			"Link":      link,
			"ExpiresIn": s.Codec.DefaultTTL(tokens.KindVerification).String(),
		},
	})
}

func (s *UserService) sendResetEmail(ctx context.Context, u *entity.User) {
	tok, _, err := s.Codec.Issue(u.ID, tokens.KindReset, 0)
	if err != nil {
		helpers.LogError(s.Logger, "issue reset token failed", err, logrus.Fields{"user_id": u.ID})
		return
	}
	link := s.Cfg.ResetPasswordURL + "?token=" + tok
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateResetPassword,
		Data: map[string]any{
			"FirstName": u.FirstName,
			"Link":      link,
			"ExpiresIn": s.Codec.DefaultTTL(tokens.KindReset).String(),
		},
	})
}

// enqueueEmail publishes an email job. Delivery is fire-and-forget:
// failures are logged and never abort the enclosing operation.
func (s *UserService) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Pub.PublishJSON(c, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue email failed", err, logrus.Fields{"to": redact.Email(job.To)})
	}
}
