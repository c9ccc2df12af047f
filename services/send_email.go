package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/student-showcase-backend/config"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

var ErrEmailDisabled = errors.New("email sending is not configured")

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailSender sends mail through the Resend API.
type EmailSender struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

// NewEmailSender reads RESEND_API_KEY and RESEND_FROM_EMAIL. It returns nil
// when either is missing; a nil sender reports ErrEmailDisabled.
func NewEmailSender(cfg map[string]string) *EmailSender {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	fromEmail := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	if apiKey == "" || fromEmail == "" {
		return nil
	}
	return &EmailSender{
		apiKey:   apiKey,
		from:     fromEmail,
		endpoint: config.GetString(cfg, "RESEND_ENDPOINT", resendEndpoint),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendEmail sends an HTML email to every recipient and returns the Resend id.
func (s *EmailSender) SendEmail(ctx context.Context, subject, body string, recipients []string) (string, error) {
	if s == nil {
		return "", ErrEmailDisabled
	}
	if len(recipients) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    s.from,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
		return "", nil
	}
	log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	return emailResponse.ID, nil
}
