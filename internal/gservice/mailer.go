package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUserID = "me"

// Mailer sends raw MIME messages through the Gmail API on behalf of the
// authenticated user.
type Mailer struct {
	cfg *oauth2.Config
}

// NewMailer creates a Mailer over the given client config.
func NewMailer(cfg *oauth2.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send submits a base64url-encoded RFC 2822 message and returns the provider
// message ID.
func (m *Mailer) Send(ctx context.Context, tok *oauth2.Token, raw string) (string, error) {
	svc, err := m.newSvc(ctx, tok)
	if err != nil {
		return "", fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := svc.Users.Messages.Send(gmailUserID, &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("messages.Send failed: %w", err)
	}

	return msg.Id, nil
}

func (m *Mailer) newSvc(ctx context.Context, tok *oauth2.Token) (*gmail.Service, error) {
	clt := m.cfg.Client(ctx, tok)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
