package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Mailer delivers verification emails over the SendGrid v3 send API.
type Mailer struct {
	APIKey     string
	FromEmail  string
	HTTPClient *http.Client
	Endpoint   string
}

func NewMailer(apiKey, fromEmail string) *Mailer {
	return &Mailer{
		APIKey:    strings.TrimSpace(apiKey),
		FromEmail: strings.TrimSpace(fromEmail),
		Endpoint:  "https://api.sendgrid.com/v3/mail/send",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type emailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type personalization struct {
	To      []emailAddress `json:"to"`
	Subject string         `json:"subject"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Content          []emailContent    `json:"content"`
}

// SendVerificationEmail mails the verification link to the new account.
func (m *Mailer) SendVerificationEmail(ctx context.Context, toEmail, firstName, link string) error {
	if m == nil {
		return fmt.Errorf("mailer not configured")
	}
	if m.APIKey == "" {
		return fmt.Errorf("missing MAIL_API_KEY")
	}
	if m.FromEmail == "" {
		return fmt.Errorf("missing MAIL_FROM_EMAIL")
	}

	greeting := "Hi"
	if strings.TrimSpace(firstName) != "" {
		greeting = "Hi " + strings.TrimSpace(firstName)
	}
	body := fmt.Sprintf(
		"%s,\n\nThanks for registering. Please verify your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n",
		greeting, link)

	payload := mailSendRequest{
		Personalizations: []personalization{{
			To:      []emailAddress{{Email: toEmail}},
			Subject: "Verify your email address",
		}},
		From:    emailAddress{Email: m.FromEmail},
		Content: []emailContent{{Type: "text/plain", Value: body}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail send returned status %d", resp.StatusCode)
	}
	return nil
}
