package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/worklog/pkg/email"
	"github.com/dmitrymomot/worklog/pkg/logger"
	"github.com/dmitrymomot/worklog/pkg/otp"
	"github.com/dmitrymomot/worklog/pkg/sanitizer"
	"github.com/dmitrymomot/worklog/pkg/validator"
)

// Storage defines the user persistence operations required by the service.
type Storage interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetUserByEmail returns ErrUserNotFound when no user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// UpdateUser replaces the mutable fields (name, verification state,
	// password hash, encrypted provider token) of an existing user.
	UpdateUser(ctx context.Context, user *User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
}

// Service orchestrates signup, login and password reset over the OTP store,
// the user storage and the mail dispatcher.
type Service struct {
	storage          Storage
	accounts         AccountStorage
	otpStore         *otp.Store
	sender           email.Sender
	tokenSealer      TokenSealer
	bcryptCost       int
	passwordStrength validator.PasswordStrengthConfig
	logger           *slog.Logger
}

// TokenSealer encrypts provider tokens before they are handed to storage.
// It is satisfied by *secrets.Codec.
type TokenSealer interface {
	Encrypt(plaintext string) (string, error)
}

// Option configures the service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// WithBcryptCost sets the bcrypt cost for password hashing. Costs below the
// default are ignored; the hash must stay slow.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.DefaultCost {
			s.bcryptCost = cost
		}
	}
}

// WithPasswordStrength sets custom password strength requirements.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) Option {
	return func(s *Service) {
		s.passwordStrength = cfg
	}
}

// NewService creates the authentication service.
func NewService(storage Storage, accounts AccountStorage, otpStore *otp.Store, sender email.Sender, sealer TokenSealer, opts ...Option) *Service {
	s := &Service{
		storage:          storage,
		accounts:         accounts,
		otpStore:         otpStore,
		sender:           sender,
		tokenSealer:      sealer,
		bcryptCost:       bcrypt.DefaultCost,
		passwordStrength: validator.DefaultPasswordStrength(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RequestSignup starts the signup flow: it refuses emails that already have
// a verified account, mints a verification code, and dispatches it. The
// code is never returned to the caller. Issuance is not retried on delivery
// failure; re-requesting is the user's decision.
func (s *Service) RequestSignup(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if err := validator.Apply(validator.ValidEmail("email", emailAddr)); err != nil {
		return err
	}

	existing, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err == nil && existing.IsVerified {
		return ErrEmailAlreadyRegistered
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("check existing user: %w", err)
	}

	code, err := s.otpStore.Issue(ctx, emailAddr, otp.PurposeVerification)
	if err != nil {
		return fmt.Errorf("issue verification code: %w", err)
	}

	if err := email.SendVerificationCode(ctx, s.sender, emailAddr, code); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "signup requested",
		logger.Email(emailAddr),
		logger.Component("auth"),
	)
	return nil
}

// CompleteSignup finishes the signup flow. The OTP must verify before any
// user record is touched; a matching unverified record is upgraded, a
// verified one refuses the signup. The consumed token cannot be replayed.
func (s *Service) CompleteSignup(ctx context.Context, emailAddr, name, password, code string) (*Principal, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	name = sanitizer.TrimText(name)

	if err := validator.Apply(
		validator.ValidEmail("email", emailAddr),
		validator.Required("name", name),
		validator.NumericCode("otp", code, otp.CodeLength),
		validator.StrongPassword("password", password, s.passwordStrength),
	); err != nil {
		return nil, err
	}

	if err := s.verifyCode(ctx, emailAddr, otp.PurposeVerification, code); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	switch {
	case err == nil && user.IsVerified:
		return nil, ErrEmailAlreadyRegistered
	case err == nil:
		// Upgrade the unverified record left by an earlier attempt.
		user.Name = name
		user.PasswordHash = hash
		user.IsVerified = true
		if err := s.storage.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("upgrade user: %w", err)
		}
	case errors.Is(err, ErrUserNotFound):
		user = &User{
			ID:           uuid.New(),
			Email:        emailAddr,
			Name:         name,
			PasswordHash: hash,
			IsVerified:   true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := s.storage.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.otpStore.Consume(ctx, emailAddr, otp.PurposeVerification); err != nil {
		s.logger.WarnContext(ctx, "failed to consume verification token",
			logger.Email(emailAddr),
			logger.Error(err),
			logger.Component("auth"),
		)
	}

	s.logger.InfoContext(ctx, "signup completed",
		logger.UserID(user.ID.String()),
		logger.Component("auth"),
	)

	return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// Login authenticates an email/password pair. Each failure mode has its own
// error: missing account, unverified account, wrong password.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*Principal, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if err := validator.Apply(
		validator.Required("email", emailAddr),
		validator.Required("password", password),
	); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	if len(user.PasswordHash) == 0 {
		// Federation-only account; there is no password to match.
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// RequestPasswordReset mints and dispatches a reset code for an existing
// account.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if err := validator.Apply(validator.ValidEmail("email", emailAddr)); err != nil {
		return err
	}

	if _, err := s.storage.GetUserByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	code, err := s.otpStore.Issue(ctx, emailAddr, otp.PurposeReset)
	if err != nil {
		return fmt.Errorf("issue reset code: %w", err)
	}

	if err := email.SendPasswordResetCode(ctx, s.sender, emailAddr, code); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset requested",
		logger.Email(emailAddr),
		logger.Component("auth"),
	)
	return nil
}

// ResetPassword replaces the password after the reset OTP verifies. The
// token is consumed on success and cannot be reused.
func (s *Service) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if err := validator.Apply(
		validator.ValidEmail("email", emailAddr),
		validator.NumericCode("otp", code, otp.CodeLength),
		validator.StrongPassword("password", newPassword, s.passwordStrength),
	); err != nil {
		return err
	}

	if err := s.verifyCode(ctx, emailAddr, otp.PurposeReset, code); err != nil {
		return err
	}

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.storage.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.otpStore.Consume(ctx, emailAddr, otp.PurposeReset); err != nil {
		s.logger.WarnContext(ctx, "failed to consume reset token",
			logger.Email(emailAddr),
			logger.Error(err),
			logger.Component("auth"),
		)
	}

	s.logger.InfoContext(ctx, "password reset completed",
		logger.UserID(user.ID.String()),
		logger.Component("auth"),
	)
	return nil
}

// verifyCode maps OTP store failures to the displayable auth errors.
func (s *Service) verifyCode(ctx context.Context, emailAddr string, purpose otp.Purpose, code string) error {
	err := s.otpStore.Verify(ctx, emailAddr, purpose, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrCodeExpired):
		return ErrCodeExpired
	case errors.Is(err, otp.ErrCodeNotFound), errors.Is(err, otp.ErrCodeMismatch):
		return ErrInvalidCode
	default:
		// Decryption or storage failure; never partially trusted.
		return fmt.Errorf("verify code: %w", err)
	}
}
