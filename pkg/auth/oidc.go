package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// ProviderMicrosoft identifies the Microsoft identity platform in federated
// account links.
const ProviderMicrosoft = "microsoft"

const userinfoEndpoint = "https://graph.microsoft.com/oidc/userinfo"

var (
	ErrInvalidState    = errors.New("invalid or expired authorization state")
	ErrExchangeFailed  = errors.New("authorization code exchange failed")
	ErrProfileFetch    = errors.New("failed to fetch provider profile")
	ErrMissingIdentity = errors.New("provider response missing subject or email")
)

// OIDCConfig configures the Microsoft identity bridge.
type OIDCConfig struct {
	ClientID     string `env:"AZURE_AD_CLIENT_ID"`
	ClientSecret string `env:"AZURE_AD_CLIENT_SECRET"`
	TenantID     string `env:"AZURE_AD_TENANT_ID" envDefault:"common"`
	RedirectURL  string `env:"AZURE_AD_REDIRECT_URL"`
}

// Enabled reports whether the bridge has credentials to operate with.
func (c OIDCConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OIDCBridge drives the authorization code flow against the Microsoft
// identity platform and turns the result into an Assertion.
type OIDCBridge struct {
	oauth  *oauth2.Config
	states *stateStore
	client *http.Client
}

// NewOIDCBridge creates the bridge. Pending authorization states expire
// after ten minutes.
func NewOIDCBridge(cfg OIDCConfig) *OIDCBridge {
	return &OIDCBridge{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
			Scopes:       []string{"openid", "profile", "email", "offline_access"},
		},
		states: newStateStore(10 * time.Minute),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Begin mints a single-use state value and returns the provider
// authorization URL to redirect the user to.
func (b *OIDCBridge) Begin() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(buf)
	b.states.put(state)
	return b.oauth.AuthCodeURL(state), nil
}

// Complete validates the state, exchanges the authorization code and loads
// the userinfo profile. The returned assertion carries the provider tokens
// in plaintext; the caller is responsible for sealing them.
func (b *OIDCBridge) Complete(ctx context.Context, state, code string) (Assertion, error) {
	if !b.states.take(state) {
		return Assertion{}, ErrInvalidState
	}

	token, err := b.oauth.Exchange(ctx, code)
	if err != nil {
		return Assertion{}, errors.Join(ErrExchangeFailed, err)
	}

	profile, err := b.fetchProfile(ctx, token)
	if err != nil {
		return Assertion{}, err
	}
	if profile.Subject == "" || profile.Email == "" {
		return Assertion{}, ErrMissingIdentity
	}

	return Assertion{
		Provider:     ProviderMicrosoft,
		Subject:      profile.Subject,
		Email:        profile.Email,
		Name:         profile.Name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

type oidcProfile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

func (b *OIDCBridge) fetchProfile(ctx context.Context, token *oauth2.Token) (oidcProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return oidcProfile{}, errors.Join(ErrProfileFetch, err)
	}
	token.SetAuthHeader(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return oidcProfile{}, errors.Join(ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return oidcProfile{}, fmt.Errorf("%w: status %d", ErrProfileFetch, resp.StatusCode)
	}

	var profile oidcProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return oidcProfile{}, errors.Join(ErrProfileFetch, err)
	}
	return profile, nil
}

// stateStore tracks pending authorization states. Entries are single use
// and swept lazily on access.
type stateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{ttl: ttl, states: make(map[string]time.Time)}
}

func (s *stateStore) put(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.states[state] = time.Now().Add(s.ttl)
}

func (s *stateStore) take(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	deadline, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(deadline)
}

func (s *stateStore) sweepLocked() {
	now := time.Now()
	for state, deadline := range s.states {
		if now.After(deadline) {
			delete(s.states, state)
		}
	}
}
