// Package config loads process configuration: environment settings and the
// Google client credentials file. Everything here is read once at startup
// and immutable afterwards.
package config

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	goauth2 "google.golang.org/api/oauth2/v2"
)

// Default values mirror the environment the frontend expects.
const (
	DefaultListenAddr     = ":5000"
	DefaultAppRedirectURL = "http://localhost:3001/gmail"
)

// Scopes is the fixed scope set requested at consent: send mail plus enough
// profile access to validate sessions.
var Scopes = []string{
	gmail.GmailSendScope,
	goauth2.UserinfoProfileScope,
	goauth2.UserinfoEmailScope,
}

// Config holds environment-sourced settings.
type Config struct {
	ListenAddr     string
	GeminiAPIKey   string
	GeminiModel    string
	AppRedirectURL string
}

// Load reads configuration from the environment. GEMINI_API_KEY is required;
// the rest fall back to defaults.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:     DefaultListenAddr,
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		AppRedirectURL: DefaultAppRedirectURL,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if u := os.Getenv("APP_REDIRECT_URL"); u != "" {
		cfg.AppRedirectURL = u
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("env variable GEMINI_API_KEY must be set")
	}

	return cfg, nil
}

// OAuthConfig loads the Google client credentials file ("web application"
// format) and builds the oauth2 config with the fixed scope set.
func OAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile failed: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("google.ConfigFromJSON failed: %w", err)
	}

	return cfg, nil
}
