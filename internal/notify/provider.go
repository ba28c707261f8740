package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// SMSProvider sends one rendered message to one mobile number.
type SMSProvider interface {
	Send(mobile, message string) error
}

// Fast2SMSProvider sends via the Fast2SMS quick route.
type Fast2SMSProvider struct {
	APIKey string
	Client *http.Client
}

func NewFast2SMSProvider(apiKey string) *Fast2SMSProvider {
	return &Fast2SMSProvider{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *Fast2SMSProvider) Send(mobile, message string) error {
	apiURL := fmt.Sprintf(
		"https://www.fast2sms.com/dev/bulkV2?authorization=%s&route=q&message=%s&language=english&flash=0&numbers=%s",
		url.QueryEscape(p.APIKey),
		url.QueryEscape(message),
		url.QueryEscape(mobile),
	)

	resp, err := p.Client.Get(apiURL)
	if err != nil {
		return fmt.Errorf("fast2sms request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fast2sms response read failed: %w", err)
	}

	var result struct {
		Return  bool   `json:"return"`
		Message any    `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("fast2sms response parse failed: %w", err)
	}
	if !result.Return {
		return fmt.Errorf("fast2sms rejected message: %v", result.Message)
	}
	return nil
}

// LogProvider writes messages to the process log instead of sending them.
// Used when no API key is configured.
type LogProvider struct{}

func (LogProvider) Send(mobile, message string) error {
	log.Printf("[Notify] (dry-run) to %s: %s", mobile, message)
	return nil
}
