package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenRecord is the provider token JSON as persisted on disk. Field names
// match Google's token endpoint response so the stored file stays readable
// by other tooling.
type TokenRecord struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	Scope        string    `json:"scope,omitempty"`
}

// NewRecord converts an exchanged oauth2 token into a persistable record.
func NewRecord(tok *oauth2.Token) *TokenRecord {
	rec := &TokenRecord{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		rec.Scope = scope
	}

	return rec
}

// Token converts the record back into an oauth2 token usable with
// oauth2.Config.Client.
func (r *TokenRecord) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
		Expiry:       r.Expiry,
	}
}
