// Package google owns the OAuth credential lifecycle for a family's link
// to Google Calendar: authorization URL, code exchange, token refresh and
// disconnect.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"familyhub/internal/models"
	"familyhub/internal/security"
)

// ErrNotConnected is returned when a family has never linked a Google
// account. It is a normal state, not a failure: callers branch on it.
var ErrNotConnected = errors.New("google calendar not connected")

// ErrUpstream indicates the calendar provider failed or timed out: a token
// refresh exchange, calendar listing or event fetch. Storage failures are
// never wrapped in it.
var ErrUpstream = errors.New("calendar provider error")

const calendarReadonlyScope = "https://www.googleapis.com/auth/calendar.readonly"

// expirySkew refreshes tokens slightly before their stated expiry so a
// token doesn't die mid-request.
const expirySkew = 30 * time.Second

// TokenStore persists credential records per family
type TokenStore interface {
	Get(familyID string) (*models.CredentialRecord, error)
	Save(familyID, accessToken, refreshToken string, expiry time.Time) error
	Disconnect(familyID string) error
}

// CredentialManager drives a family's OAuth credential through its
// lifecycle: unlinked → authorization pending → linked → refreshed →
// unlinked again on disconnect.
type CredentialManager struct {
	conf  *oauth2.Config
	store TokenStore

	// Refreshes are read-then-write; serialize them per family so two
	// concurrent requests can't race each other into duplicate refresh
	// calls that invalidate one another.
	locks *security.KeyedMutex
}

// NewCredentialManager creates a manager for the given OAuth client
func NewCredentialManager(clientID, clientSecret, redirectURL string, store TokenStore) *CredentialManager {
	return &CredentialManager{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       []string{calendarReadonlyScope},
		},
		store: store,
		locks: security.NewKeyedMutex(time.Hour),
	}
}

// AuthURL returns the provider authorization URL for a family. The family
// id rides along as the opaque state parameter and comes back on the
// callback.
func (m *CredentialManager) AuthURL(familyID string) string {
	return m.conf.AuthCodeURL(familyID,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// HandleCallback exchanges the authorization code and stores the resulting
// tokens for the family identified by the callback state. On exchange
// failure any existing credential is left untouched.
func (m *CredentialManager) HandleCallback(ctx context.Context, familyID, code string) error {
	token, err := m.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := m.store.Save(familyID, token.AccessToken, token.RefreshToken, token.Expiry.UTC()); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Connected reports whether the family currently has a stored credential
func (m *CredentialManager) Connected(familyID string) (bool, error) {
	record, err := m.store.Get(familyID)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

// TokenFor returns a usable access token for the family, refreshing and
// persisting it first if the stored one has expired. Returns
// ErrNotConnected when the family never linked an account.
func (m *CredentialManager) TokenFor(ctx context.Context, familyID string) (*oauth2.Token, error) {
	unlock := m.locks.Lock(familyID)
	defer unlock()

	record, err := m.store.Get(familyID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotConnected
	}

	if time.Now().Add(expirySkew).Before(record.TokenExpiry) {
		return &oauth2.Token{
			AccessToken:  record.AccessToken,
			RefreshToken: record.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       record.TokenExpiry,
		}, nil
	}

	// Expired: run a refresh exchange via the token source and persist
	// the result. The provider may omit the refresh token on renewal;
	// the store keeps the old one in that case.
	stale := &oauth2.Token{
		RefreshToken: record.RefreshToken,
		Expiry:       time.Unix(1, 0),
	}
	fresh, err := m.conf.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w: %v", ErrUpstream, err)
	}

	if err := m.store.Save(familyID, fresh.AccessToken, fresh.RefreshToken, fresh.Expiry.UTC()); err != nil {
		return nil, fmt.Errorf("failed to store refreshed credential: %w", err)
	}
	return fresh, nil
}

// Disconnect removes the family's credential and calendar selections
func (m *CredentialManager) Disconnect(familyID string) error {
	return m.store.Disconnect(familyID)
}
