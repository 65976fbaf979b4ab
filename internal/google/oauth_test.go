package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"familyhub/internal/models"
)

type fakeTokenStore struct {
	record      *models.CredentialRecord
	saves       int
	disconnects int
}

func (f *fakeTokenStore) Get(familyID string) (*models.CredentialRecord, error) {
	return f.record, nil
}

func (f *fakeTokenStore) Save(familyID, accessToken, refreshToken string, expiry time.Time) error {
	f.saves++
	if refreshToken == "" && f.record != nil {
		refreshToken = f.record.RefreshToken
	}
	f.record = &models.CredentialRecord{
		FamilyID:     familyID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  expiry,
	}
	return nil
}

func (f *fakeTokenStore) Disconnect(familyID string) error {
	f.disconnects++
	f.record = nil
	return nil
}

// tokenEndpoint serves the OAuth token exchange for refresh tests
func tokenEndpoint(t *testing.T, refreshCount *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse token request: %v", err)
		}
		if r.Form.Get("grant_type") == "refresh_token" {
			*refreshCount++
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)
	}))
}

func managerWithEndpoint(store TokenStore, tokenURL string) *CredentialManager {
	m := NewCredentialManager("client-id", "client-secret", "http://localhost/cb", store)
	m.conf.Endpoint.TokenURL = tokenURL
	return m
}

func TestAuthURLCarriesFamilyState(t *testing.T) {
	m := NewCredentialManager("client-id", "client-secret", "http://localhost/cb", &fakeTokenStore{})

	raw := m.AuthURL("fam-1")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid auth url: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "fam-1" {
		t.Errorf("expected family id as state, got %q", q.Get("state"))
	}
	if q.Get("access_type") != "offline" {
		t.Error("expected offline access for a refresh token")
	}
	if q.Get("prompt") != "consent" {
		t.Error("expected forced consent so a refresh token is always issued")
	}
	if !strings.Contains(q.Get("scope"), "calendar.readonly") {
		t.Errorf("expected the readonly calendar scope, got %q", q.Get("scope"))
	}
}

func TestTokenForNotConnected(t *testing.T) {
	m := NewCredentialManager("client-id", "client-secret", "http://localhost/cb", &fakeTokenStore{})

	_, err := m.TokenFor(context.Background(), "fam-1")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestTokenForFreshTokenSkipsRefresh(t *testing.T) {
	refreshes := 0
	server := tokenEndpoint(t, &refreshes)
	defer server.Close()

	store := &fakeTokenStore{record: &models.CredentialRecord{
		FamilyID:     "fam-1",
		AccessToken:  "current-access",
		RefreshToken: "current-refresh",
		TokenExpiry:  time.Now().Add(time.Hour),
	}}
	m := managerWithEndpoint(store, server.URL)

	token, err := m.TokenFor(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "current-access" {
		t.Errorf("expected the stored token, got %q", token.AccessToken)
	}
	if refreshes != 0 {
		t.Errorf("expected no refresh for a fresh token, got %d", refreshes)
	}
	if store.saves != 0 {
		t.Errorf("nothing should be persisted for a fresh token, got %d saves", store.saves)
	}
}

func TestTokenForExpiredTokenRefreshesOnce(t *testing.T) {
	refreshes := 0
	server := tokenEndpoint(t, &refreshes)
	defer server.Close()

	store := &fakeTokenStore{record: &models.CredentialRecord{
		FamilyID:     "fam-1",
		AccessToken:  "stale-access",
		RefreshToken: "current-refresh",
		TokenExpiry:  time.Now().Add(-time.Hour),
	}}
	m := managerWithEndpoint(store, server.URL)

	token, err := m.TokenFor(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "new-access" {
		t.Errorf("expected the refreshed token, got %q", token.AccessToken)
	}
	if refreshes != 1 {
		t.Errorf("expected exactly 1 refresh, got %d", refreshes)
	}
	if store.saves != 1 {
		t.Errorf("expected the refreshed token to be persisted once, got %d saves", store.saves)
	}
	// The provider omitted the refresh token on renewal; the old one
	// must survive.
	if store.record.RefreshToken != "current-refresh" {
		t.Errorf("expected the refresh token to be preserved, got %q", store.record.RefreshToken)
	}
}

func TestTokenForRefreshFailureIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal_failure"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &fakeTokenStore{record: &models.CredentialRecord{
		FamilyID:     "fam-1",
		AccessToken:  "stale-access",
		RefreshToken: "current-refresh",
		TokenExpiry:  time.Now().Add(-time.Hour),
	}}
	m := managerWithEndpoint(store, server.URL)

	_, err := m.TokenFor(context.Background(), "fam-1")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for a failed refresh, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("nothing should be persisted on a failed refresh, got %d saves", store.saves)
	}
}

func TestConnectedAndDisconnect(t *testing.T) {
	store := &fakeTokenStore{record: &models.CredentialRecord{FamilyID: "fam-1"}}
	m := NewCredentialManager("client-id", "client-secret", "http://localhost/cb", store)

	connected, err := m.Connected("fam-1")
	if err != nil || !connected {
		t.Fatalf("expected connected, got %v, %v", connected, err)
	}

	if err := m.Disconnect("fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.disconnects != 1 {
		t.Errorf("expected 1 disconnect, got %d", store.disconnects)
	}

	connected, err = m.Connected("fam-1")
	if err != nil || connected {
		t.Fatalf("expected disconnected, got %v, %v", connected, err)
	}
}
