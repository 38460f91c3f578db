package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"

	"github.com/tair/inventory-monitor/internal/rules"
)

// TwilioConfig holds the credentials for the Twilio SMS channel.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	BaseURL    string // overridable for tests; empty means the Twilio API
}

// TwilioConfigFromEnv reads the standard Twilio environment variables.
func TwilioConfigFromEnv() TwilioConfig {
	return TwilioConfig{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		From:       os.Getenv("TWILIO_PHONE_NUMBER"),
		To:         os.Getenv("ALERT_RECIPIENT_NUMBER"),
	}
}

// TwilioChannel delivers alerts as SMS through the Twilio REST API.
type TwilioChannel struct {
	cfg    TwilioConfig
	client *resty.Client
}

// NewTwilioChannel creates the SMS channel. Missing credentials yield a
// ConfigurationError; callers should drop the channel and carry on.
func NewTwilioChannel(cfg TwilioConfig) (*TwilioChannel, error) {
	var missing []string
	if cfg.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if cfg.From == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if cfg.To == "" {
		missing = append(missing, "ALERT_RECIPIENT_NUMBER")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Channel: "sms", Missing: missing}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	return &TwilioChannel{cfg: cfg, client: client}, nil
}

func (c *TwilioChannel) Name() string {
	return "sms"
}

func (c *TwilioChannel) Deliver(ctx context.Context, alert rules.Alert) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   c.cfg.To,
			"From": c.cfg.From,
			"Body": messageBody(alert),
		}).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.cfg.AccountSID))
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}
