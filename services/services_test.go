package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func newResendServer(t *testing.T, status int, reply string, got *ResendEmailRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testEmailSender(endpoint string) *EmailSender {
	return NewEmailSender(map[string]string{
		"RESEND_API_KEY":    "re_test",
		"RESEND_FROM_EMAIL": "Showcase <noreply@example.com>",
		"RESEND_ENDPOINT":   endpoint,
	})
}

func TestSendEmail(t *testing.T) {
	var got ResendEmailRequest
	srv := newResendServer(t, http.StatusOK, `{"id":"email_1"}`, &got)

	id, err := testEmailSender(srv.URL).SendEmail(context.Background(), "Hello", "<p>hi</p>", []string{"a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "email_1", id)
	assert.Equal(t, "Showcase <noreply@example.com>", got.From)
	assert.Equal(t, []string{"a@example.com"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.Html)
}

func TestSendEmailErrors(t *testing.T) {
	srv := newResendServer(t, http.StatusUnprocessableEntity, `{"message":"invalid from"}`, nil)
	_, err := testEmailSender(srv.URL).SendEmail(context.Background(), "Hello", "x", []string{"a@example.com"})
	assert.EqualError(t, err, "resend API error (status 422): invalid from")

	_, err = testEmailSender(srv.URL).SendEmail(context.Background(), "Hello", "x", nil)
	assert.Error(t, err)

	var disabled *EmailSender
	_, err = disabled.SendEmail(context.Background(), "Hello", "x", []string{"a@example.com"})
	assert.ErrorIs(t, err, ErrEmailDisabled)
	assert.Nil(t, NewEmailSender(map[string]string{"RESEND_API_KEY": "re_test"}))
}

type fakeTwilio struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSendSMS(t *testing.T) {
	api := &fakeTwilio{}
	sender := NewSMSSenderWithAPI(api, "+15550000000")

	sid, err := sender.SendSMS("+33600000000", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
	require.Len(t, api.params, 1)
	assert.Equal(t, "+33600000000", *api.params[0].To)
	assert.Equal(t, "+15550000000", *api.params[0].From)

	_, err = sender.SendSMS("", "hello")
	assert.Error(t, err)

	var disabled *SMSSender
	_, err = disabled.SendSMS("+33600000000", "hello")
	assert.ErrorIs(t, err, ErrSMSDisabled)
	assert.Nil(t, NewSMSSender(map[string]string{"TWILIO_ACCOUNT_SID": "AC1"}))
}

func testCandidate() models.Candidate {
	return models.Candidate{ID: 12, Name: "Lin", Surname: "Yu", Email: "lin@example.com", Phone: "+33600000000", Program: "Web", Motivation: "<b>I</b> love\ncode"}
}

func TestNotifyCandidate(t *testing.T) {
	var got ResendEmailRequest
	srv := newResendServer(t, http.StatusOK, `{"id":"email_1"}`, &got)
	sms := &fakeTwilio{}

	notifier := &CandidateNotifier{
		Email:      testEmailSender(srv.URL),
		SMS:        NewSMSSenderWithAPI(sms, "+15550000000"),
		Admissions: []string{"admissions@example.com"},
		BaseURL:    "https://school.example.com",
		SchoolName: "Campus",
	}
	require.NoError(t, notifier.NotifyCandidate(context.Background(), testCandidate()))

	assert.Equal(t, "New application: Lin Yu (Web)", got.Subject)
	assert.Contains(t, got.Html, "&lt;b&gt;I&lt;/b&gt; love<br>code")
	assert.Contains(t, got.Html, "https://school.example.com/admin/candidates/12")
	require.Len(t, sms.params, 1)
	assert.Contains(t, *sms.params[0].Body, "Campus received your application for Web")
}

func TestNotifyCandidateFailuresAreJoined(t *testing.T) {
	srv := newResendServer(t, http.StatusInternalServerError, `oops`, nil)
	notifier := &CandidateNotifier{
		Email:      testEmailSender(srv.URL),
		SMS:        NewSMSSenderWithAPI(&fakeTwilio{err: errors.New("invalid number")}, "+15550000000"),
		Admissions: []string{"admissions@example.com"},
	}

	err := notifier.NotifyCandidate(context.Background(), testCandidate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admissions email")
	assert.Contains(t, err.Error(), "invalid number")
}

func TestNotifyCandidateUnconfigured(t *testing.T) {
	notifier := NewCandidateNotifier(map[string]string{})
	assert.NoError(t, notifier.NotifyCandidate(context.Background(), testCandidate()))

	var none *CandidateNotifier
	assert.NoError(t, none.NotifyCandidate(context.Background(), testCandidate()))
}

func TestLinks(t *testing.T) {
	base := GetBaseURL(map[string]string{"BASE_URL": "https://school.example.com/"})
	assert.Equal(t, "https://school.example.com", base)
	assert.Equal(t, "https://school.example.com/gallery/3", BuildGalleryURL(base, 3))
	assert.Equal(t, "", BuildCandidateURL("", 3))
}
