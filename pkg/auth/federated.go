package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/worklog/pkg/logger"
	"github.com/dmitrymomot/worklog/pkg/sanitizer"
	"github.com/dmitrymomot/worklog/pkg/validator"
)

// AccountStorage persists federated account links.
type AccountStorage interface {
	// GetAccount returns ErrAccountNotFound when no link exists.
	GetAccount(ctx context.Context, provider, providerAccountID string) (*Account, error)
	LinkAccount(ctx context.Context, account *Account) error
	UpdateAccountTokens(ctx context.Context, provider, providerAccountID, encryptedAccess, encryptedRefresh string) error
}

// CompleteFederated finishes a federated sign-in from a verified provider
// assertion. It provisions a user on first sign-in, links the provider
// account, and refreshes the stored tokens on every subsequent sign-in.
// Tokens are sealed before storage; if sealing fails the sign-in fails,
// plaintext tokens are never persisted.
func (s *Service) CompleteFederated(ctx context.Context, assertion Assertion) (*Principal, error) {
	emailAddr := sanitizer.NormalizeEmail(assertion.Email)
	if err := validator.Apply(
		validator.Required("provider", assertion.Provider),
		validator.Required("subject", assertion.Subject),
		validator.ValidEmail("email", emailAddr),
	); err != nil {
		return nil, err
	}

	encAccess, encRefresh, err := s.sealTokens(assertion.AccessToken, assertion.RefreshToken)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetAccount(ctx, assertion.Provider, assertion.Subject)
	switch {
	case err == nil:
		if err := s.accounts.UpdateAccountTokens(ctx, assertion.Provider, assertion.Subject, encAccess, encRefresh); err != nil {
			return nil, fmt.Errorf("refresh account tokens: %w", err)
		}
		user, err := s.storage.GetUserByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("load linked user: %w", err)
		}
		if err := s.refreshUserToken(ctx, user, encAccess); err != nil {
			return nil, err
		}
		return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name}, nil

	case errors.Is(err, ErrAccountNotFound):
		user, err := s.provisionFederatedUser(ctx, emailAddr, assertion.Name, encAccess)
		if err != nil {
			return nil, err
		}
		if err := s.accounts.LinkAccount(ctx, &Account{
			UserID:                user.ID,
			Provider:              assertion.Provider,
			ProviderAccountID:     assertion.Subject,
			EncryptedAccessToken:  encAccess,
			EncryptedRefreshToken: encRefresh,
			CreatedAt:             time.Now(),
		}); err != nil {
			return nil, fmt.Errorf("link account: %w", err)
		}
		s.logger.InfoContext(ctx, "federated account linked",
			logger.UserID(user.ID.String()),
			logger.Component("auth"),
		)
		return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name}, nil

	default:
		return nil, fmt.Errorf("load account: %w", err)
	}
}

// provisionFederatedUser resolves the user for a first-time federated
// sign-in. An existing user with the same email is linked rather than
// duplicated; federation implies the provider verified the address.
func (s *Service) provisionFederatedUser(ctx context.Context, emailAddr, name, encAccess string) (*User, error) {
	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		user.IsVerified = true
		user.EncryptedAccessToken = encAccess
		if user.Name == "" {
			user.Name = sanitizer.TrimText(name)
		}
		if err := s.storage.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return user, nil
	case errors.Is(err, ErrUserNotFound):
		user = &User{
			ID:                   uuid.New(),
			Email:                emailAddr,
			Name:                 sanitizer.TrimText(name),
			IsVerified:           true,
			EncryptedAccessToken: encAccess,
			CreatedAt:            time.Now(),
			UpdatedAt:            time.Now(),
		}
		if err := s.storage.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	default:
		return nil, fmt.Errorf("load user: %w", err)
	}
}

func (s *Service) refreshUserToken(ctx context.Context, user *User, encAccess string) error {
	user.EncryptedAccessToken = encAccess
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("refresh user token: %w", err)
	}
	return nil
}

// sealTokens encrypts the provider tokens. An empty refresh token stays
// empty; some providers only hand one out on the first consent.
func (s *Service) sealTokens(access, refresh string) (string, string, error) {
	encAccess, err := s.tokenSealer.Encrypt(access)
	if err != nil {
		return "", "", fmt.Errorf("seal access token: %w", err)
	}
	var encRefresh string
	if refresh != "" {
		encRefresh, err = s.tokenSealer.Encrypt(refresh)
		if err != nil {
			return "", "", fmt.Errorf("seal refresh token: %w", err)
		}
	}
	return encAccess, encRefresh, nil
}
