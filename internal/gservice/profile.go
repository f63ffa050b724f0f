// Package gservice wraps the Google API surfaces the mailer depends on:
// userinfo for session validation and Gmail for outbound mail.
package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"automailer/internal/auth"
)

// Profiles fetches the user identity behind a token from the provider's
// userinfo endpoint.
type Profiles struct {
	cfg *oauth2.Config
}

// NewProfiles creates a profile fetcher over the given client config.
func NewProfiles(cfg *oauth2.Config) *Profiles {
	return &Profiles{cfg: cfg}
}

// Fetch retrieves the profile for the given token. A failure here means the
// token did not validate against the provider.
func (p *Profiles) Fetch(ctx context.Context, tok *oauth2.Token) (*auth.Profile, error) {
	clt := p.cfg.Client(ctx, tok)

	svc, err := goauth2.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("oauth2.NewService failed: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("userinfo.Get failed: %w", err)
	}

	return &auth.Profile{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
