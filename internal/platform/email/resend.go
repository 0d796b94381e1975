// Package email delivers owner notifications through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendNotifier implements job.Notifier against the Resend API. An empty
// API key disables sending: calls succeed as no-ops so a development setup
// never needs email credentials.
type ResendNotifier struct {
	logger *slog.Logger
	client *http.Client

	apiKey   string
	from     string
	appURL   string
	endpoint string
}

// NewResendNotifier creates a notifier from the email configuration.
func NewResendNotifier(logger *slog.Logger, cfg config.EmailConfig) *ResendNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResendNotifier{
		logger:   logger.With("component", "resend_notifier"),
		client:   &http.Client{Timeout: 10 * time.Second},
		apiKey:   cfg.ResendAPIKey,
		from:     cfg.FromAddress,
		appURL:   cfg.AppURL,
		endpoint: resendEndpoint,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NotifyComplete emails the owner a link to the finished book.
func (n *ResendNotifier) NotifyComplete(ctx context.Context, address string, bookID uuid.UUID, bookName string) error {
	bookURL := fmt.Sprintf("%s?book=%s", n.appURL, bookID)

	body := fmt.Sprintf(`<h1>Your Chronicle is Complete</h1>
<p>Great news! Your personalized history book for <strong>%s</strong> has been generated.</p>
<p>Your book contains <strong>365 unique historical entries</strong>, one for every day of the year, each carefully curated to match your interests.</p>
<p><a href="%s">View Your Book</a></p>
<p>From ancient wonders to modern marvels, each entry connects the rich tapestry of human history to the story of your life.</p>`,
		bookName, bookURL)

	return n.send(ctx, address, fmt.Sprintf("Your book %q is ready!", bookName), body)
}

// NotifyFailed emails the owner that generation gave up.
func (n *ResendNotifier) NotifyFailed(ctx context.Context, address string, bookName string) error {
	body := fmt.Sprintf(`<h1>Generation Issue</h1>
<p>We encountered an issue while generating your book for <strong>%s</strong>.</p>
<p>Don't worry: you can try generating your book again from your dashboard.</p>
<p><a href="%s/my-books">Go to My Books</a></p>`,
		bookName, n.appURL)

	return n.send(ctx, address, fmt.Sprintf("Issue with your book %q", bookName), body)
}

func (n *ResendNotifier) send(ctx context.Context, to, subject, html string) error {
	if n.apiKey == "" {
		n.logger.InfoContext(ctx, "email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, detail)
	}

	n.logger.InfoContext(ctx, "notification email sent", "to", to, "subject", subject)
	return nil
}
