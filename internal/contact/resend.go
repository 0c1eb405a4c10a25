package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lornu-ai/web-gateway/internal/sanitize"
)

// resendEndpoint is the public Resend send-email API.
const resendEndpoint = "https://api.resend.com/emails"

// genericSendError is what clients see when the provider gives us nothing
// better. Provider detail stays in the logs.
const genericSendError = "Failed to send email. Please try again later."

// maxErrorBodyBytes caps how much of a provider error response gets read.
const maxErrorBodyBytes = 64 << 10

// Mailer sends an accepted contact submission onward. The returned error's
// message is safe to surface to the client.
type Mailer interface {
	Send(ctx context.Context, sub Sanitized) error
}

// ResendConfig configures a ResendMailer.
type ResendConfig struct {
	APIKey string
	// From is the envelope sender shown to the recipient.
	From string
	// To is the destination inbox for submissions.
	To string
	// Endpoint overrides the Resend API URL; tests point it at a local server.
	Endpoint string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	Logger *slog.Logger
}

// ResendMailer delivers contact submissions through the Resend API. A send
// is one POST with no retry: the first failure is terminal for the request.
type ResendMailer struct {
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
	to       string
	logger   *slog.Logger
}

// NewResendMailer creates a mailer from cfg, filling in defaults.
func NewResendMailer(cfg ResendConfig) *ResendMailer {
	m := &ResendMailer{
		client:   cfg.Client,
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		to:       cfg.To,
		logger:   cfg.Logger,
	}
	if m.client == nil {
		m.client = http.DefaultClient
	}
	if m.endpoint == "" {
		m.endpoint = resendEndpoint
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// sendRequest is the Resend send-email payload.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"replyTo"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Send posts sub to the Resend API and maps provider failures to
// user-facing messages.
func (m *ResendMailer) Send(ctx context.Context, sub Sanitized) error {
	payload := sendRequest{
		From:    m.from,
		To:      []string{m.to},
		ReplyTo: sub.Email,
		Subject: "New Contact Form Submission from " + truncate(sub.Name, 100),
		HTML:    buildHTMLBody(sub),
		Text:    buildTextBody(sub),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		m.logger.Error("failed to encode email payload", "error", err)
		return errors.New(genericSendError)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		m.logger.Error("failed to build email request", "error", err)
		return errors.New(genericSendError)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("email send failed", "error", err)
		return errors.New(genericSendError)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return m.mapError(resp.StatusCode, respBody)
	}

	m.logger.Info("email sent", "status", resp.StatusCode, "response", string(respBody))
	return nil
}

// mapError converts a provider rejection into a user-facing error. The full
// response is logged here and only the mapped string leaves the process.
func (m *ResendMailer) mapError(status int, body []byte) error {
	var provider struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &provider) // tolerate non-JSON bodies

	m.logger.Error("resend api error", "status", status, "response", string(body))

	switch status {
	case http.StatusUnauthorized:
		return errors.New("Authentication failed. Please check RESEND_API_KEY secret.")
	case http.StatusForbidden:
		return errors.New("API key lacks permission to send emails. Check API key permissions in Resend dashboard.")
	case http.StatusUnprocessableEntity:
		if provider.Message != "" {
			return errors.New(provider.Message)
		}
		return errors.New("Invalid email configuration. Check domain verification.")
	default:
		if provider.Message != "" {
			return errors.New(provider.Message)
		}
		return errors.New(genericSendError)
	}
}

// buildHTMLBody renders the notification email. Fields are entity-encoded
// even though sanitation already stripped angle brackets; the redundant
// layer stays so the output is safe independent of validation.
func buildHTMLBody(sub Sanitized) string {
	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>\n")
	b.WriteString("<p><strong>Name:</strong> " + sanitize.HTMLEncode(sub.Name) + "</p>\n")
	b.WriteString("<p><strong>Email:</strong> " + sanitize.HTMLEncode(sub.Email) + "</p>\n")
	b.WriteString("<p><strong>Message:</strong></p>\n")
	b.WriteString("<p>" + strings.ReplaceAll(sanitize.HTMLEncode(sub.Message), "\n", "<br>") + "</p>\n")
	return b.String()
}

// buildTextBody renders the plaintext alternative, unescaped.
func buildTextBody(sub Sanitized) string {
	return fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\n\nMessage:\n%s",
		sub.Name, sub.Email, sub.Message)
}

func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
