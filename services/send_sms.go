package services

import (
	"errors"
	"fmt"

	"github.com/rpupo63/student-showcase-backend/config"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrSMSDisabled = errors.New("sms sending is not configured")

// MessageCreator is the Twilio call the sender needs.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender sends text messages through Twilio.
type SMSSender struct {
	api  MessageCreator
	from string
}

// NewSMSSender reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_FROM_NUMBER. It returns nil when any of them is missing.
func NewSMSSender(cfg map[string]string) *SMSSender {
	accountSID := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	authToken := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSMSSenderWithAPI(client.Api, from)
}

func NewSMSSenderWithAPI(api MessageCreator, from string) *SMSSender {
	return &SMSSender{api: api, from: from}
}

// SendSMS sends body to the given number and returns the message SID.
func (s *SMSSender) SendSMS(to, body string) (string, error) {
	if s == nil {
		return "", ErrSMSDisabled
	}
	if to == "" {
		return "", fmt.Errorf("recipient phone number is required")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio API error: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Info().Str("messageSid", sid).Msg("Successfully sent SMS via Twilio")
	return sid, nil
}
