package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"

	"automailer/internal/auth"
	"automailer/internal/compose"
	"automailer/internal/genai"
)

// handleConnect reports the authorization state: a consent URL to visit, or
// null when a valid session already exists.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	st, err := s.auth.Status(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("status check failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to connect to the mail",
			"details": err.Error(),
		})
		return
	}

	if st.Authorized {
		respondJSON(w, http.StatusOK, map[string]any{"authUrl": nil})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"authUrl": st.AuthURL})
}

// handleAuthorized is the OAuth redirect target: it exchanges the code,
// persists the token and sends the browser back to the application.
func (s *Server) handleAuthorized(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	if _, err := s.auth.Exchange(r.Context(), code); err != nil {
		log.Error().Err(err).Msg("code exchange failed")
		http.Error(w, "Error during authorization", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, s.appRedirectURL, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	if err := s.auth.Revoke(); err != nil {
		log.Error().Err(err).Msg("revoke failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to logout"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

type generateRequest struct {
	FormData genai.FormData `json:"formData"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	content, err := s.generator.Generate(r.Context(), req.FormData)
	if err != nil {
		log.Error().Err(err).Msg("content generation failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to generate email",
			"details": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"emailContent": content})
}

type sendRequest struct {
	RecipientEmail string               `json:"recipientEmail"`
	EmailContent   compose.EmailContent `json:"emailContent"`
	SenderEmail    string               `json:"senderEmail"`
	CcEmail        string               `json:"ccEmail"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Session missing from request"})
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	hasContent := req.EmailContent != (compose.EmailContent{})
	if req.RecipientEmail == "" || !hasContent || req.SenderEmail == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Missing required email parameters",
			"details": map[string]bool{
				"recipientEmail": req.RecipientEmail != "",
				"emailContent":   hasContent,
				"senderEmail":    req.SenderEmail != "",
			},
		})
		return
	}

	htmlBody, err := compose.HTMLBody(req.EmailContent, session.Profile.Name)
	if err != nil {
		log.Error().Err(err).Msg("html body rendering failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Email rendering failed"})
		return
	}
	textBody := compose.TextBody(req.EmailContent, session.Profile.Name)
	raw := compose.RawMessage(
		req.SenderEmail,
		req.RecipientEmail,
		req.CcEmail,
		req.EmailContent.Heading,
		textBody,
		htmlBody,
	)

	msgID, err := s.mailer.Send(r.Context(), session.Record.Token(), raw)
	if err != nil {
		log.Error().Err(err).Msg("mail send failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Email sending failed",
			"details": sendErrorDetails(err),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"messageId": msgID,
		"message":   "Email sent successfully!",
	})
}

// sendErrorDetails surfaces the provider diagnostic when the failure carries
// one.
func sendErrorDetails(err error) map[string]any {
	details := map[string]any{"message": err.Error()}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		details["code"] = gerr.Code
		details["message"] = gerr.Message
	}

	return details
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Session missing from request"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"userdata": session.Profile})
}
