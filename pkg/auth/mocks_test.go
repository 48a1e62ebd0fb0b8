package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/worklog/pkg/auth"
	"github.com/dmitrymomot/worklog/pkg/email"
	"github.com/dmitrymomot/worklog/pkg/otp"
	"github.com/dmitrymomot/worklog/pkg/secrets"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*auth.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[uuid.UUID]*auth.User)}
}

func (s *memoryUserStore) CreateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memoryUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memoryUserStore) GetUserByEmail(_ context.Context, emailAddr string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == emailAddr {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memoryUserStore) UpdateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return auth.ErrUserNotFound
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memoryUserStore) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

type memoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{accounts: make(map[string]*auth.Account)}
}

func accountKey(provider, providerAccountID string) string {
	return provider + "|" + providerAccountID
}

func (s *memoryAccountStore) GetAccount(_ context.Context, provider, providerAccountID string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountKey(provider, providerAccountID)]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (s *memoryAccountStore) LinkAccount(_ context.Context, account *auth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *account
	s.accounts[accountKey(account.Provider, account.ProviderAccountID)] = &clone
	return nil
}

func (s *memoryAccountStore) UpdateAccountTokens(_ context.Context, provider, providerAccountID, encryptedAccess, encryptedRefresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountKey(provider, providerAccountID)]
	if !ok {
		return auth.ErrAccountNotFound
	}
	account.EncryptedAccessToken = encryptedAccess
	account.EncryptedRefreshToken = encryptedRefresh
	return nil
}

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]otp.Token
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]otp.Token)}
}

func tokenKey(emailAddr string, purpose otp.Purpose) string {
	return emailAddr + "|" + string(purpose)
}

func (s *memoryTokenStore) DeleteTokens(_ context.Context, emailAddr string, purpose otp.Purpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(emailAddr, purpose))
	return nil
}

func (s *memoryTokenStore) CreateToken(_ context.Context, token otp.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(token.Email, token.Purpose)] = token
	return nil
}

func (s *memoryTokenStore) GetToken(_ context.Context, emailAddr string, purpose otp.Purpose) (*otp.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenKey(emailAddr, purpose)]
	if !ok {
		return nil, otp.ErrCodeNotFound
	}
	return &token, nil
}

// captureSender records outgoing mail so tests can pull the delivered code.
type captureSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	fail error
}

func (s *captureSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, params)
	return nil
}

func (s *captureSender) last(t *testing.T) email.SendEmailParams {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	return s.sent[len(s.sent)-1]
}

type fixture struct {
	svc      *auth.Service
	users    *memoryUserStore
	accounts *memoryAccountStore
	tokens   *memoryTokenStore
	sender   *captureSender
	codec    *secrets.Codec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := secrets.New(testSecret)
	require.NoError(t, err)

	f := &fixture{
		users:    newMemoryUserStore(),
		accounts: newMemoryAccountStore(),
		tokens:   newMemoryTokenStore(),
		sender:   &captureSender{},
		codec:    codec,
	}
	f.svc = auth.NewService(f.users, f.accounts, otp.New(f.tokens, codec), f.sender, codec)
	return f
}

// issuedCode reads the plaintext code back out of the stored token. Mail
// bodies embed the code in HTML, so decrypting the stored row is the
// reliable way to recover it.
func (f *fixture) issuedCode(t *testing.T, emailAddr string, purpose otp.Purpose) string {
	t.Helper()
	token, err := f.tokens.GetToken(context.Background(), emailAddr, purpose)
	require.NoError(t, err)
	code, err := f.codec.Decrypt(token.EncryptedCode)
	require.NoError(t, err)
	return code
}
