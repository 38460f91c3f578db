package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"

	"github.com/tair/inventory-monitor/internal/rules"
)

// SendGridConfig holds the credentials for the email channel.
type SendGridConfig struct {
	APIKey  string
	From    string
	To      string
	BaseURL string // overridable for tests; empty means the SendGrid API
}

// SendGridConfigFromEnv reads the SendGrid environment variables.
func SendGridConfigFromEnv() SendGridConfig {
	return SendGridConfig{
		APIKey: os.Getenv("SENDGRID_API_KEY"),
		From:   os.Getenv("ALERT_SENDER_EMAIL"),
		To:     os.Getenv("ALERT_RECIPIENT_EMAIL"),
	}
}

// SendGridChannel delivers alerts as email through the SendGrid v3 API.
type SendGridChannel struct {
	cfg    SendGridConfig
	client *resty.Client
}

// NewSendGridChannel creates the email channel, or a ConfigurationError when
// credentials are absent.
func NewSendGridChannel(cfg SendGridConfig) (*SendGridChannel, error) {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "SENDGRID_API_KEY")
	}
	if cfg.From == "" {
		missing = append(missing, "ALERT_SENDER_EMAIL")
	}
	if cfg.To == "" {
		missing = append(missing, "ALERT_RECIPIENT_EMAIL")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Channel: "email", Missing: missing}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)

	return &SendGridChannel{cfg: cfg, client: client}, nil
}

func (c *SendGridChannel) Name() string {
	return "email"
}

func (c *SendGridChannel) Deliver(ctx context.Context, alert rules.Alert) error {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": c.cfg.To}}},
		},
		"from":    map[string]string{"email": c.cfg.From},
		"subject": fmt.Sprintf("%s alert for %s", alert.Kind, alert.ItemName),
		"content": []map[string]string{
			{"type": "text/plain", "value": messageBody(alert)},
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/v3/mail/send")
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sendgrid returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}
