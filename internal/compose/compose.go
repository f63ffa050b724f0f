// Package compose formats generated email content into text and HTML bodies
// and assembles the raw MIME message for the Gmail API. Pure functions, no
// state.
package compose

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

// EmailContent is the structured content of a composed email.
type EmailContent struct {
	Greeting  string `json:"greeting"`
	Heading   string `json:"heading"`
	Body      string `json:"body"`
	Closing   string `json:"closing"`
	Signature string `json:"signature"`
}

var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// StripHTML removes markup from a string, leaving plain text.
func StripHTML(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// sanitize escapes content destined for the HTML body and converts newlines
// to <br /> so paragraph breaks survive.
func sanitize(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br />")

	return template.HTML(escaped)
}

var bodyTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0, maximum-scale=1.0, user-scalable=no">
    <title>{{.Heading}}</title>
    <style>
      * { box-sizing: border-box; margin: 0; padding: 0; }
      html, body { width: 100%; max-width: 100%; overflow-x: hidden; }
      body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, 'Open Sans', 'Helvetica Neue', sans-serif;
        line-height: 1.4;
        color: #333;
        background-color: #f4f4f4;
        font-size: 16px;
      }
      .email-container {
        width: 100%;
        max-width: 600px;
        margin: 0 auto;
        background-color: #ffffff;
        border: 1px solid #e0e0e0;
        border-radius: 8px;
        box-shadow: 0 2px 4px rgba(0,0,0,0.05);
        overflow: hidden;
      }
      .email-heading {
        font-size: 20px;
        font-weight: 600;
        margin: 0;
        padding: 15px;
        line-height: 1.2;
        background-color: #f8f9fa;
        border-bottom: 1px solid #e0e0e0;
      }
      .email-content { padding: 15px; font-size: 14px; }
      .email-greeting { margin-bottom: 15px; font-weight: 500; }
      .email-body { margin-bottom: 15px; }
      .email-closing { margin-top: 15px; }
      .email-footer {
        background-color: #f1f3f5;
        color: #6c757d;
        padding: 10px 15px;
        font-size: 12px;
        border-top: 1px solid #e0e0e0;
        text-align: right;
      }
      @media only screen and (max-width: 480px) {
        .email-container { width: 100%; margin: 0; border: none; border-radius: 0; }
        .email-heading { font-size: 18px; padding: 12px; }
        .email-content { padding: 12px; font-size: 13px; }
      }
    </style>
  </head>
  <body>
    <div class="email-container">
      <h2 class="email-heading">{{.Heading}}</h2>
      <div class="email-content">
        <div class="email-greeting">{{.Greeting}}</div>
        <div class="email-body">{{.Body}}</div>
        <div class="email-closing">{{.Closing}},<br>{{.Sender}}</div>
      </div>
      <div class="email-footer">
        Sent by {{.Sender}} via <strong>Auto Mailer</strong>
      </div>
    </div>
  </body>
</html>
`))

type bodyData struct {
	Heading  template.HTML
	Greeting template.HTML
	Body     template.HTML
	Closing  template.HTML
	Sender   template.HTML
}

// HTMLBody renders the HTML part of the email. senderName falls back to
// "Sender" when empty.
func HTMLBody(content EmailContent, senderName string) (string, error) {
	if senderName == "" {
		senderName = "Sender"
	}

	var sb strings.Builder
	err := bodyTmpl.Execute(&sb, bodyData{
		Heading:  sanitize(content.Heading),
		Greeting: sanitize(content.Greeting),
		Body:     sanitize(content.Body),
		Closing:  sanitize(content.Closing),
		Sender:   sanitize(senderName),
	})
	if err != nil {
		return "", fmt.Errorf("bodyTmpl.Execute failed: %w", err)
	}

	return sb.String(), nil
}

// TextBody renders the plain-text alternative part.
func TextBody(content EmailContent, senderName string) string {
	if senderName == "" {
		senderName = "Sender"
	}

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n\nSent by %s",
		content.Heading,
		content.Greeting,
		StripHTML(content.Body),
		content.Closing,
		senderName,
	)
}

// RawMessage assembles a multipart/alternative MIME message and encodes it
// for the Gmail API raw field. The Cc header is emitted only when cc is set.
func RawMessage(from, to, cc, subject, textBody, htmlBody string) string {
	boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())

	lines := []string{
		"From: " + from,
		"To: " + to,
	}
	if cc != "" {
		lines = append(lines, "Cc: "+cc)
	}
	lines = append(lines,
		"Subject: "+subject,
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", boundary),
		"",
		"--"+boundary,
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 7bit",
		"",
		textBody,
		"",
		"--"+boundary,
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: 7bit",
		"",
		htmlBody,
		"",
		"--"+boundary+"--",
	)

	return base64.URLEncoding.EncodeToString([]byte(strings.Join(lines, "\r\n")))
}
