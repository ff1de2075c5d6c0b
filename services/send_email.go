package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/models"
)

const resendBaseURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailNotifier mails new contact messages to the site owner through Resend.
type EmailNotifier struct {
	apiKey     string
	from       string
	recipients []string
	baseURL    string
	client     *http.Client
}

func NewEmailNotifier(s config.NotifySettings) *EmailNotifier {
	return &EmailNotifier{
		apiKey:     s.ResendAPIKey,
		from:       s.ResendFromEmail,
		recipients: s.EmailRecipients,
		baseURL:    resendBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the notifier at another Resend-compatible endpoint.
func (n *EmailNotifier) WithBaseURL(baseURL string) *EmailNotifier {
	n.baseURL = strings.TrimSuffix(baseURL, "/")
	return n
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) NotifyContact(ctx context.Context, c models.Contact) error {
	subject := fmt.Sprintf("New contact: %s", c.Subject)
	return n.SendEmail(ctx, subject, contactEmailBody(c), c.Email)
}

// SendEmail posts one message to the configured recipients.
func (n *EmailNotifier) SendEmail(ctx context.Context, subject, body, replyTo string) error {
	if len(n.recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if n.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required")
	}
	if n.from == "" {
		return fmt.Errorf("RESEND_FROM_EMAIL is required")
	}

	text, err := html2text.FromString(body, html2text.Options{OmitLinks: true})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render plain-text email body")
		text = ""
	}

	payload, err := json.Marshal(ResendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: subject,
		Html:    body,
		Text:    text,
		ReplyTo: replyTo,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

func contactEmailBody(c models.Contact) string {
	var b strings.Builder
	b.WriteString("<h2>New message from your portfolio</h2>")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(c.Name), html.EscapeString(c.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(c.Subject))
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>"))
	return b.String()
}
