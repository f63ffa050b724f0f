package genai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automailer/internal/compose"
	"automailer/internal/genai"
)

const fullResponse = `{
	"greeting": "Dear Jane,",
	"heading": "Project Kickoff",
	"body": "We are starting next week.",
	"closing": "Best regards",
	"signature": "John Doe"
}`

func TestParseEmailContent(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected compose.EmailContent
		wantErr  bool
	}{
		{
			name: "bare json",
			text: fullResponse,
			expected: compose.EmailContent{
				Greeting:  "Dear Jane,",
				Heading:   "Project Kickoff",
				Body:      "We are starting next week.",
				Closing:   "Best regards",
				Signature: "John Doe",
			},
		},
		{
			name: "json wrapped in markdown fences",
			text: "```json\n" + fullResponse + "\n```",
			expected: compose.EmailContent{
				Greeting:  "Dear Jane,",
				Heading:   "Project Kickoff",
				Body:      "We are starting next week.",
				Closing:   "Best regards",
				Signature: "John Doe",
			},
		},
		{
			name: "json with surrounding whitespace",
			text: "\n\n  " + fullResponse + "  \n",
			expected: compose.EmailContent{
				Greeting:  "Dear Jane,",
				Heading:   "Project Kickoff",
				Body:      "We are starting next week.",
				Closing:   "Best regards",
				Signature: "John Doe",
			},
		},
		{
			name:    "not json",
			text:    "Sure! Here is your email:",
			wantErr: true,
		},
		{
			name:    "missing signature",
			text:    `{"greeting":"g","heading":"h","body":"b","closing":"c"}`,
			wantErr: true,
		},
		{
			name:    "empty field",
			text:    `{"greeting":"g","heading":"","body":"b","closing":"c","signature":"s"}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := genai.ParseEmailContent(tc.text)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
