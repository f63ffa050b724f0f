package httpapi_test

import (
	"context"

	"golang.org/x/oauth2"

	"automailer/internal/auth"
	"automailer/internal/compose"
	"automailer/internal/genai"
)

type authorizerMock struct {
	StatusFunc   func(ctx context.Context) (auth.Status, error)
	ExchangeFunc func(ctx context.Context, code string) (*auth.TokenRecord, error)
	RevokeFunc   func() error
}

func (m *authorizerMock) Status(ctx context.Context) (auth.Status, error) {
	return m.StatusFunc(ctx)
}

func (m *authorizerMock) Exchange(ctx context.Context, code string) (*auth.TokenRecord, error) {
	return m.ExchangeFunc(ctx, code)
}

func (m *authorizerMock) Revoke() error {
	return m.RevokeFunc()
}

type mailerMock struct {
	SendFunc func(ctx context.Context, tok *oauth2.Token, raw string) (string, error)
}

func (m *mailerMock) Send(ctx context.Context, tok *oauth2.Token, raw string) (string, error) {
	return m.SendFunc(ctx, tok, raw)
}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, form genai.FormData) (compose.EmailContent, error)
}

func (m *generatorMock) Generate(ctx context.Context, form genai.FormData) (compose.EmailContent, error) {
	return m.GenerateFunc(ctx, form)
}

func authorizedMock() *authorizerMock {
	return &authorizerMock{
		StatusFunc: func(context.Context) (auth.Status, error) {
			return auth.Status{
				Authorized: true,
				Session: &auth.Session{
					Record:  &auth.TokenRecord{AccessToken: "a", RefreshToken: "r"},
					Profile: &auth.Profile{Email: "u@x.com", Name: "U"},
				},
			}, nil
		},
	}
}

func unauthorizedMock(authURL string) *authorizerMock {
	return &authorizerMock{
		StatusFunc: func(context.Context) (auth.Status, error) {
			return auth.Status{AuthURL: authURL}, nil
		},
	}
}
