package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"automailer/internal/auth"
)

type profilesMock struct {
	FetchFunc func(ctx context.Context, tok *oauth2.Token) (*auth.Profile, error)
}

func (m *profilesMock) Fetch(ctx context.Context, tok *oauth2.Token) (*auth.Profile, error) {
	return m.FetchFunc(ctx, tok)
}

func testOAuthCfg(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5000/authorized",
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.send"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: tokenURL,
		},
	}
}

func okProfiles() *profilesMock {
	return &profilesMock{
		FetchFunc: func(context.Context, *oauth2.Token) (*auth.Profile, error) {
			return &auth.Profile{Email: "u@x.com", Name: "U"}, nil
		},
	}
}

func TestAuthCodeURL(t *testing.T) {
	a := auth.NewAuthorizer(testOAuthCfg(""), auth.NewFileStore("unused"), okProfiles())

	u := a.AuthCodeURL()
	assert.Contains(t, u, "https://accounts.example.com/auth")
	assert.Contains(t, u, "access_type=offline")
	assert.Contains(t, u, "prompt=consent")
	assert.Contains(t, u, "client_id=client-id")
}

func TestStatusNoRecord(t *testing.T) {
	store, _ := newTestStore(t)
	a := auth.NewAuthorizer(testOAuthCfg(""), store, okProfiles())

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Authorized)
	assert.NotEmpty(t, st.AuthURL)
	assert.Nil(t, st.Session)
}

func TestStatusNoRefreshToken(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Write(&auth.TokenRecord{AccessToken: "a"}))

	fetched := false
	profiles := &profilesMock{
		FetchFunc: func(context.Context, *oauth2.Token) (*auth.Profile, error) {
			fetched = true
			return &auth.Profile{}, nil
		},
	}
	a := auth.NewAuthorizer(testOAuthCfg(""), store, profiles)

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Authorized)
	assert.NotEmpty(t, st.AuthURL)
	assert.False(t, fetched, "a record without refresh token must not be validated")
}

func TestStatusValidRecord(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Write(&auth.TokenRecord{AccessToken: "a", RefreshToken: "r"}))

	a := auth.NewAuthorizer(testOAuthCfg(""), store, okProfiles())

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	require.True(t, st.Authorized)
	require.NotNil(t, st.Session)
	assert.Equal(t, "u@x.com", st.Session.Profile.Email)
	assert.Equal(t, "a", st.Session.Record.AccessToken)
	assert.Empty(t, st.AuthURL)
}

func TestStatusValidationFailure(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Write(&auth.TokenRecord{AccessToken: "a", RefreshToken: "r"}))

	profiles := &profilesMock{
		FetchFunc: func(context.Context, *oauth2.Token) (*auth.Profile, error) {
			return nil, fmt.Errorf("simulated provider failure")
		},
	}
	a := auth.NewAuthorizer(testOAuthCfg(""), store, profiles)

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Authorized)
	assert.NotEmpty(t, st.AuthURL)
}

func TestStatusCorruptStore(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	a := auth.NewAuthorizer(testOAuthCfg(""), store, okProfiles())

	_, err := a.Status(context.Background())
	require.Error(t, err)
}

func TestExchangePersistsRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "a",
			"token_type": "Bearer",
			"refresh_token": "r",
			"expires_in": 3600,
			"scope": "https://www.googleapis.com/auth/gmail.send"
		}`))
	}))
	defer srv.Close()

	store, _ := newTestStore(t)
	a := auth.NewAuthorizer(testOAuthCfg(srv.URL), store, okProfiles())

	rec, err := a.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.AccessToken)
	assert.Equal(t, "r", rec.RefreshToken)
	assert.Equal(t, "https://www.googleapis.com/auth/gmail.send", rec.Scope)

	// status after a single exchange reports authorized
	st, err := a.Status(context.Background())
	require.NoError(t, err)
	require.True(t, st.Authorized)
	assert.Equal(t, "u@x.com", st.Session.Profile.Email)
}

func TestExchangeBadCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	store, _ := newTestStore(t)
	a := auth.NewAuthorizer(testOAuthCfg(srv.URL), store, okProfiles())

	_, err := a.Exchange(context.Background(), "expired-code")
	require.Error(t, err)
	assert.False(t, store.Exists(), "failed exchange must not persist anything")
}

func TestRevokeIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Write(&auth.TokenRecord{AccessToken: "a", RefreshToken: "r"}))

	a := auth.NewAuthorizer(testOAuthCfg(""), store, okProfiles())

	require.NoError(t, a.Revoke())

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Authorized)
	assert.NotEmpty(t, st.AuthURL)

	require.NoError(t, a.Revoke())
}

func TestStartupCleanupInvariant(t *testing.T) {
	// a token file surviving from a previous process is stale state
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"a","refresh_token":"r"}`), 0600))

	require.NoError(t, store.Delete())

	a := auth.NewAuthorizer(testOAuthCfg(""), store, okProfiles())

	st, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Authorized)
	assert.NotEmpty(t, st.AuthURL)
}
