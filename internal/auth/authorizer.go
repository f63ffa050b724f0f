package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Profile is the user identity fetched from the provider while validating a
// session. Wire keys match the provider's userinfo response.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Session is the validated pairing of a token record and the profile it was
// validated against. Built per status check, never cached across requests.
type Session struct {
	Record  *TokenRecord
	Profile *Profile
}

// Status is the outcome of an authorization check. When Authorized is false,
// AuthURL carries a fresh consent URL for the caller to redirect into.
type Status struct {
	Authorized bool
	Session    *Session
	AuthURL    string
}

type profileFetcher interface {
	Fetch(ctx context.Context, tok *oauth2.Token) (*Profile, error)
}

// Authorizer owns the OAuth2 flow against the provider: consent URLs, code
// exchange and status checks. Token state lives exclusively in the Store.
type Authorizer struct {
	cfg      *oauth2.Config
	store    Store
	profiles profileFetcher
}

// NewAuthorizer creates an Authorizer over the given client config and store.
func NewAuthorizer(cfg *oauth2.Config, store Store, profiles profileFetcher) *Authorizer {
	return &Authorizer{
		cfg:      cfg,
		store:    store,
		profiles: profiles,
	}
}

// AuthCodeURL builds the provider consent URL requesting offline access with
// forced re-consent, so every grant yields a refresh token.
func (a *Authorizer) AuthCodeURL() string {
	return a.cfg.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token record and persists it.
func (a *Authorizer) Exchange(ctx context.Context, code string) (*TokenRecord, error) {
	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("cfg.Exchange failed: %w", err)
	}

	rec := NewRecord(tok)
	if err := a.store.Write(rec); err != nil {
		return nil, fmt.Errorf("store.Write failed: %w", err)
	}

	return rec, nil
}

// Status reports whether a valid session exists. A stored record is validated
// by fetching the user profile with it; any validation failure (expired or
// revoked token, provider unreachable) yields unauthorized with a fresh
// consent URL. A record without a refresh token is never treated as a valid
// session. There is no explicit refresh attempt beyond what the oauth2 client
// performs transparently during the profile call.
func (a *Authorizer) Status(ctx context.Context) (Status, error) {
	rec, err := a.store.Read()
	if errors.Is(err, ErrNoToken) {
		return Status{AuthURL: a.AuthCodeURL()}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("store.Read failed: %w", err)
	}

	if rec.RefreshToken == "" {
		log.Warn().Msg("stored token has no refresh token, forcing re-consent")

		return Status{AuthURL: a.AuthCodeURL()}, nil
	}

	profile, err := a.profiles.Fetch(ctx, rec.Token())
	if err != nil {
		log.Warn().Err(err).Msg("token validation failed, forcing re-consent")

		return Status{AuthURL: a.AuthCodeURL()}, nil
	}

	return Status{
		Authorized: true,
		Session:    &Session{Record: rec, Profile: profile},
	}, nil
}

// Revoke discards the persisted session. Revoking an absent session is not
// an error.
func (a *Authorizer) Revoke() error {
	if err := a.store.Delete(); err != nil {
		return fmt.Errorf("store.Delete failed: %w", err)
	}

	return nil
}
