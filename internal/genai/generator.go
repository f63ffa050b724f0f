// Package genai produces structured email content from a topic description
// using the Generative Language API.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	genlang "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"automailer/internal/compose"
)

const defaultModel = "models/gemini-1.5-flash"

// FormData describes the email to generate.
type FormData struct {
	EmailType     string `json:"emailType"`
	RecipientName string `json:"recipientName"`
	Content       string `json:"content"`
}

// Generator calls the Generative Language API to draft email content.
type Generator struct {
	svc   *genlang.Service
	model string
}

// NewGenerator creates a Generator authenticated with an API key. model may
// be empty to use the default.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	svc, err := genlang.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genlang.NewService failed: %w", err)
	}

	if model == "" {
		model = defaultModel
	}

	return &Generator{svc: svc, model: model}, nil
}

// Generate drafts email content for the given form data. The model is asked
// for a bare JSON object; the response is cleaned of markdown fences and
// parsed, and all five content fields must be present.
func (g *Generator) Generate(ctx context.Context, form FormData) (compose.EmailContent, error) {
	req := &genlang.GenerateContentRequest{
		Contents: []*genlang.Content{{
			Role:  "user",
			Parts: []*genlang.Part{{Text: buildPrompt(form)}},
		}},
	}

	resp, err := g.svc.Models.GenerateContent(g.model, req).Context(ctx).Do()
	if err != nil {
		return compose.EmailContent{}, fmt.Errorf("models.GenerateContent failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return compose.EmailContent{}, err
	}

	return ParseEmailContent(text)
}

func buildPrompt(form FormData) string {
	return fmt.Sprintf(`Generate a JSON response for a detailed %[1]s email with these requirements like i am sending an email to %[2]s about %[3]s.:
- Email is being sent to: %[2]s
- Main topic/purpose: %[3]s
- Tone should be %[1]s
- Include specific details and context from the main topic
- Make the email body at least 3-4 paragraphs with proper flow
- Ensure the greeting and closing match the %[1]s tone not include name in closing

Respond ONLY with a JSON object in this exact format, without any additional text:
{
  "greeting": "A contextual and personalized greeting appropriate for the email type",
  "heading": "A clear and specific subject line that summarizes the email purpose",
  "body": "A well-structured email body with proper paragraphs, specific details, and professional tone",
  "closing": "A professional closing line appropriate for the email type",
  "signature": "A formal signature line"
}`, form.EmailType, form.RecipientName, form.Content)
}

func responseText(resp *genlang.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String(), nil
}

// ParseEmailContent parses a model response into EmailContent, tolerating
// markdown code fences around the JSON object.
func ParseEmailContent(text string) (compose.EmailContent, error) {
	if strings.Contains(text, "```") {
		text = strings.ReplaceAll(text, "```json", "")
		text = strings.ReplaceAll(text, "```", "")
	}
	text = strings.TrimSpace(text)

	var content compose.EmailContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return compose.EmailContent{}, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	if content.Greeting == "" || content.Heading == "" || content.Body == "" ||
		content.Closing == "" || content.Signature == "" {
		return compose.EmailContent{}, errors.New("model response missing required email parts")
	}

	return content, nil
}
