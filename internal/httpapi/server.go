// Package httpapi exposes the mailer's JSON HTTP surface.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"automailer/internal/auth"
	"automailer/internal/compose"
	"automailer/internal/genai"
)

type authorizer interface {
	Status(ctx context.Context) (auth.Status, error)
	Exchange(ctx context.Context, code string) (*auth.TokenRecord, error)
	Revoke() error
}

type mailer interface {
	Send(ctx context.Context, tok *oauth2.Token, raw string) (string, error)
}

type generator interface {
	Generate(ctx context.Context, form genai.FormData) (compose.EmailContent, error)
}

// Server wires the HTTP surface to the authorizer and the provider
// collaborators.
type Server struct {
	auth           authorizer
	mailer         mailer
	generator      generator
	appRedirectURL string
}

// New creates the HTTP server layer. appRedirectURL is where the browser is
// sent after a successful consent callback.
func New(a authorizer, m mailer, g generator, appRedirectURL string) *Server {
	return &Server{
		auth:           a,
		mailer:         m,
		generator:      g,
		appRedirectURL: appRedirectURL,
	}
}

// Routes builds the router. The session guard covers only operations that
// need a validated session; the auth endpoints stay unguarded to avoid
// circular gating.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/connect", s.handleConnect)
	r.Get("/authorized", s.handleAuthorized)
	r.Post("/logout", s.handleLogout)
	r.Post("/generate", s.handleGenerate)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(s.auth))
		r.Post("/send", s.handleSend)
		r.Get("/info", s.handleInfo)
	})

	return r
}
