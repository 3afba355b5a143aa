package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/R6Joan/Festa-Roser/internal/models"
	"github.com/R6Joan/Festa-Roser/internal/observability"
	"github.com/R6Joan/Festa-Roser/internal/repository"
)

// OAuthKeys holds one provider's client credentials
type OAuthKeys struct {
	ClientID     string
	ClientSecret string
}

// providerSetup binds an oauth2 config to the userinfo endpoint that
// yields the stable (provider, subject id) pair.
type providerSetup struct {
	config      *oauth2.Config
	userInfoURL string
}

// AuthService exchanges OAuth authorization codes for identities and
// manages the cookie sessions that carry them between requests. Only the
// provider, subject id and display name are ever kept.
type AuthService struct {
	sessions     repository.SessionRepo
	providers    map[string]*providerSetup
	sessionHours int
}

// NewAuthService creates an AuthService with Google and Facebook wired up.
// publicURL is the externally reachable base used for callback URLs.
func NewAuthService(sessions repository.SessionRepo, publicURL string, googleKeys, facebookKeys OAuthKeys, sessionHours int) *AuthService {
	base := strings.TrimRight(publicURL, "/")

	return &AuthService{
		sessions:     sessions,
		sessionHours: sessionHours,
		providers: map[string]*providerSetup{
			"google": {
				config: &oauth2.Config{
					ClientID:     googleKeys.ClientID,
					ClientSecret: googleKeys.ClientSecret,
					RedirectURL:  base + "/auth/google/callback",
					Scopes:       []string{"https://www.googleapis.com/auth/userinfo.profile"},
					Endpoint:     google.Endpoint,
				},
				userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
			},
			"facebook": {
				config: &oauth2.Config{
					ClientID:     facebookKeys.ClientID,
					ClientSecret: facebookKeys.ClientSecret,
					RedirectURL:  base + "/auth/facebook/callback",
					Scopes:       []string{"public_profile"},
					Endpoint:     facebook.Endpoint,
				},
				userInfoURL: "https://graph.facebook.com/me?fields=id,name",
			},
		},
	}
}

// KnownProvider reports whether the provider name is configured
func (s *AuthService) KnownProvider(provider string) bool {
	_, ok := s.providers[provider]
	return ok
}

// AuthURL builds the provider's consent page URL for the given state
func (s *AuthService) AuthURL(provider, state string) (string, error) {
	setup, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
	return setup.config.AuthCodeURL(state), nil
}

// Exchange trades an authorization code for the provider's stable
// identity: subject id and display name.
func (s *AuthService) Exchange(ctx context.Context, provider, code string) (*models.Identity, error) {
	ctx, span := observability.StartServiceSpan(ctx, "auth", "exchange")
	defer span.End()
	span.SetAttributes(observability.Provider(provider))

	setup, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	token, err := setup.config.Exchange(ctx, code)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	client := setup.config.Client(ctx, token)
	resp, err := client.Get(setup.userInfoURL)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var info struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("provider returned no subject id")
	}

	return &models.Identity{
		Provider: provider,
		ID:       info.ID,
		Name:     info.Name,
	}, nil
}

// CreateSession persists a session for a freshly authenticated identity
func (s *AuthService) CreateSession(ctx context.Context, identity *models.Identity) (*models.Session, error) {
	session := models.NewSession(*identity, s.sessionHours)
	if err := s.sessions.Add(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve maps a session token to its identity, or nil when the token is
// unknown or expired.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.GetByID(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() {
		return nil, nil
	}

	// Update last activity (async, don't wait)
	go s.sessions.Touch(context.Background(), session.ID)

	identity := session.Identity
	return &identity, nil
}

// Logout removes the session behind the token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// PurgeExpired deletes expired sessions and returns how many went away
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
