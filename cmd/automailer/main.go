// Auto Mailer backend: authorizes against Google via OAuth2, drafts email
// content with the Generative Language API and sends mail through Gmail.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"automailer/internal/auth"
	"automailer/internal/config"
	"automailer/internal/genai"
	"automailer/internal/gservice"
	"automailer/internal/httpapi"
)

func main() {
	httpAddr := flag.String("http-addr", "", "HTTP server listen addr (defaults to :$PORT)")
	credentialsFile := flag.String("credentials-file", "credentials.json", "Path to Google client credentials (web application format)")
	tokenFile := flag.String("token-file", "token.json", "Path to persist the OAuth token")
	envFile := flag.String("env-file", "", "Path to env file")

	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatal().Err(err).Msg("godotenv.Load failed")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config.Load failed")
	}
	if *httpAddr == "" {
		*httpAddr = cfg.ListenAddr
	}

	oauthCfg, err := config.OAuthConfig(*credentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("config.OAuthConfig failed")
	}

	// No session survives a restart: a leftover token file is stale state.
	store := auth.NewFileStore(*tokenFile)
	if store.Exists() {
		log.Info().Str("path", *tokenFile).Msg("cleaning up leftover token file")
	}
	if err := store.Delete(); err != nil {
		log.Fatal().Err(err).Msg("store.Delete failed")
	}
	defer func() {
		if err := store.Delete(); err != nil {
			log.Error().Err(err).Msg("token cleanup on shutdown failed")
		}
	}()

	ctx := context.Background()

	generator, err := genai.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("genai.NewGenerator failed")
	}

	authorizer := auth.NewAuthorizer(oauthCfg, store, gservice.NewProfiles(oauthCfg))
	api := httpapi.New(authorizer, gservice.NewMailer(oauthCfg), generator, cfg.AppRedirectURL)

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("net.Listen failed")
	}

	srv := &http.Server{Handler: api.Routes()}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	defer stopHTTP()

	select {
	case err := <-errHTTPCh:
		log.Error().Err(err).Msg("http server error")
	case <-shutdown:
		log.Info().Msg("shutdown signal received")
	}
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Info().Str("addr", ln.Addr().String()).Msg("starting http server")

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errHTTPCh <- fmt.Errorf("srv.Serve failed: %w", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("srv.Shutdown failed")
		}

		<-errHTTPCh
		log.Info().Msg("http server stopped")
	}, errHTTPCh
}
