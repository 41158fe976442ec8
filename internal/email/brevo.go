package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rewards_backend/platform/config"
)

// Sender delivers transactional email. Callers treat delivery as best
// effort; a failed send never fails the operation that triggered it.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name, referralCode, discountCode string) error
	SendPointsEarnedEmail(ctx context.Context, toEmail string, amount, newTotal int, reason string) error
}

// NoopSender discards all email. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(ctx context.Context, toEmail, name, referralCode, discountCode string) error {
	return nil
}

func (NoopSender) SendPointsEarnedEmail(ctx context.Context, toEmail string, amount, newTotal int, reason string) error {
	return nil
}

// BrevoSender delivers via the Brevo transactional HTTP API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

// NewSender selects a sender implementation from the configured provider.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "noop":
		return NoopSender{}, nil
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	case "brevo":
		return &BrevoSender{
			apiKey:    cfg.GetBrevoAPIKey(),
			fromName:  cfg.GetEmailFromName(),
			fromEmail: cfg.GetEmailFromAddress(),
			client:    &http.Client{Timeout: 10 * time.Second},
		}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}

func (b *BrevoSender) SendWelcomeEmail(ctx context.Context, toEmail, name, referralCode, discountCode string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectWelcome,
			Heading: "You're on the list!",
		},
		Name:         name,
		ReferralCode: referralCode,
		DiscountCode: discountCode,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subjectWelcome, content)
}

func (b *BrevoSender) SendPointsEarnedEmail(ctx context.Context, toEmail string, amount, newTotal int, reason string) error {
	content, err := renderEmailTemplate("points_earned.html", pointsEarnedEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectPointsEarned,
			Heading: fmt.Sprintf("You earned %d points", amount),
		},
		Amount:   amount,
		NewTotal: newTotal,
		Reason:   reasonLabel(reason),
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, fmt.Sprintf(subjectPointsEarnedFmt, amount), content)
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}
