package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/sankofa/internal/utils"
)

// Notifier delivers a one-time code to a contact channel. Delivery is
// best effort; callers log failures instead of propagating them.
type Notifier interface {
	SendCode(ctx context.Context, destination, code string) error
}

// GatewayNotifier posts codes to external email/SMS gateway endpoints,
// picking the endpoint by the shape of the destination. When an endpoint
// is unconfigured it logs and drops the message.
type GatewayNotifier struct {
	emailURL string
	smsURL   string
	apiKey   string
	client   *http.Client
	log      *slog.Logger
}

// NewGatewayNotifier creates a GatewayNotifier.
func NewGatewayNotifier(emailURL, smsURL, apiKey string, log *slog.Logger) *GatewayNotifier {
	return &GatewayNotifier{
		emailURL: emailURL,
		smsURL:   smsURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

type codeMessage struct {
	To   string `json:"to"`
	Code string `json:"code"`
}

// SendCode delivers the code to an email address or phone number.
func (n *GatewayNotifier) SendCode(ctx context.Context, destination, code string) error {
	url := n.smsURL
	channel := "sms"
	if utils.IsValidEmail(destination) {
		url = n.emailURL
		channel = "email"
	}

	if url == "" {
		n.log.Warn("notification gateway not configured, dropping code", "channel", channel)
		return nil
	}

	body, err := json.Marshal(codeMessage{To: destination, Code: code})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}
