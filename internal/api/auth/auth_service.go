package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hdnotes/hd-notes-api/app/tracer"
	"github.com/hdnotes/hd-notes-api/config"
	"github.com/hdnotes/hd-notes-api/internal/mailer"
	"github.com/hdnotes/hd-notes-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates the signup/login/verify flow. Both entry paths
// converge on a pending OTP; verification converts it into a session token.
type AuthService interface {
	// Signup creates a fresh identity with a pending OTP and mails the code.
	Signup(ctx context.Context, name, email string, dateOfBirth time.Time) error

	// Login reissues an OTP for an existing identity and mails the code.
	Login(ctx context.Context, email string) error

	// VerifyOTP checks the submitted code and, on success, issues a session token.
	VerifyOTP(ctx context.Context, email, code string) (string, PublicUser, error)

	// GoogleAuth is the federated entry: finds or creates a verified identity
	// without an OTP step and issues a session token.
	GoogleAuth(ctx context.Context, name, email, googleID string) (string, PublicUser, error)
}

type AuthServiceImpl struct {
	repo    UserRepo
	otp     *OTPEngine
	sender  mailer.Sender
	limiter *ResendLimiter
	jwtCfg  config.JWTConfig
	logger  *slog.Logger
	now     func() time.Time
}

func NewAuthService(repo UserRepo, otp *OTPEngine, sender mailer.Sender, limiter *ResendLimiter, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		repo:    repo,
		otp:     otp,
		sender:  sender,
		limiter: limiter,
		jwtCfg:  jwtCfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *AuthServiceImpl) Signup(ctx context.Context, name, email string, dateOfBirth time.Time) error {
	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("signup for %s: %w", email, types.ErrConflict)
	}
	if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	if !s.limiter.Allow(email) {
		return fmt.Errorf("signup for %s: %w", email, types.ErrTooManyRequests)
	}

	user, err := s.repo.CreateUser(ctx, name, email, dateOfBirth)
	if err != nil {
		return err
	}
	return s.issueAndSend(ctx, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !s.limiter.Allow(email) {
		return fmt.Errorf("login for %s: %w", email, types.ErrTooManyRequests)
	}
	return s.issueAndSend(ctx, user)
}

// issueAndSend generates and persists a fresh OTP, then mails it. Delivery
// failures are logged but do not fail the request, matching the flow's
// at-most-informational mail contract.
func (s *AuthServiceImpl) issueAndSend(ctx context.Context, user *User) error {
	code, err := s.otp.Issue(ctx, user)
	if err != nil {
		return err
	}
	tracer.RecordOTPIssued(ctx)

	if err := s.sender.SendOTP(ctx, user.Email, code); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send OTP email",
			slog.String("email", user.Email), slog.Any("error", err))
	}
	return nil
}

func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, email, code string) (string, PublicUser, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", PublicUser{}, err
	}

	err = s.otp.Verify(ctx, user, code)
	switch {
	case err == nil:
	case errors.Is(err, ErrOTPNotRequested), errors.Is(err, ErrOTPInvalid), errors.Is(err, ErrOTPExpired):
		// The sub-reason is not leaked to the caller.
		tracer.RecordOTPVerifyFailure(ctx)
		return "", PublicUser{}, fmt.Errorf("verify for %s: %w", email, types.ErrVerificationFailed)
	default:
		return "", PublicUser{}, err
	}

	token, err := GenerateAccessToken(user.ID, user.Email, s.jwtCfg, s.now())
	if err != nil {
		return "", PublicUser{}, err
	}
	tracer.RecordTokenIssued(ctx)
	return token, user.Public(), nil
}

func (s *AuthServiceImpl) GoogleAuth(ctx context.Context, name, email, googleID string) (string, PublicUser, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, types.ErrNotFound) {
		// Placeholder federated flow: the identity is created already
		// verified, with the current time standing in for a birth date.
		user, err = s.repo.CreateExternalUser(ctx, name, email, googleID, s.now())
	}
	if err != nil {
		return "", PublicUser{}, err
	}

	token, err := GenerateAccessToken(user.ID, user.Email, s.jwtCfg, s.now())
	if err != nil {
		return "", PublicUser{}, err
	}
	tracer.RecordTokenIssued(ctx)
	return token, user.Public(), nil
}
