package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/student-showcase-backend/config"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rs/zerolog/log"
)

// CandidateNotifier tells admissions about a new application and confirms
// receipt to the candidate. Every channel is optional.
type CandidateNotifier struct {
	Email      *EmailSender
	SMS        *SMSSender
	Admissions []string
	BaseURL    string
	SchoolName string
}

func NewCandidateNotifier(cfg map[string]string) *CandidateNotifier {
	return &CandidateNotifier{
		Email:      NewEmailSender(cfg),
		SMS:        NewSMSSender(cfg),
		Admissions: config.GetStrings(cfg, "ADMISSIONS_EMAIL"),
		BaseURL:    GetBaseURL(cfg),
		SchoolName: config.GetString(cfg, "SCHOOL_NAME", "the school"),
	}
}

// NotifyCandidate sends both notifications and returns their joined errors.
// Unconfigured channels are skipped silently.
func (n *CandidateNotifier) NotifyCandidate(ctx context.Context, candidate models.Candidate) error {
	if n == nil {
		return nil
	}
	logger := log.With().Uint("candidateId", candidate.ID).Logger()

	var result error
	if n.Email != nil && len(n.Admissions) > 0 {
		subject := fmt.Sprintf("New application: %s %s (%s)", candidate.Name, candidate.Surname, candidate.Program)
		if _, err := n.Email.SendEmail(ctx, subject, n.candidateSummary(candidate), n.Admissions); err != nil {
			logger.Error().Err(err).Msg("failed to email admissions")
			result = errors.Join(result, fmt.Errorf("admissions email: %w", err))
		}
	}

	if n.SMS != nil {
		body := fmt.Sprintf("Hi %s, %s received your application for %s. We will get back to you soon.",
			candidate.Name, n.SchoolName, candidate.Program)
		if _, err := n.SMS.SendSMS(candidate.Phone, body); err != nil {
			logger.Error().Err(err).Msg("failed to text candidate")
			result = errors.Join(result, fmt.Errorf("candidate sms: %w", err))
		}
	}

	return result
}

func (n *CandidateNotifier) candidateSummary(c models.Candidate) string {
	var b strings.Builder
	b.WriteString("<h2>New application</h2><ul>")
	for _, row := range [][2]string{
		{"Name", c.Name + " " + c.Surname},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Program", c.Program},
	} {
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", row[0], html.EscapeString(row[1]))
	}
	b.WriteString("</ul><p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(c.Motivation), "\n", "<br>"))
	b.WriteString("</p>")
	if link := BuildCandidateURL(n.BaseURL, c.ID); link != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Open in admin</a></p>`, html.EscapeString(link))
	}
	return b.String()
}
