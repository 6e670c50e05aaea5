// internal/core/whatsapp/cloud_api.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
)

// CloudAPIProvider implements WhatsApp Cloud API (Official Business API)
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api
type CloudAPIProvider struct {
	baseURL     string
	phoneID     string // WhatsApp Business Phone Number ID
	accessToken string // Meta Business Access Token
	apiVersion  string // API version (e.g., "v18.0")
	client      *http.Client
}

// CloudAPIConfig holds configuration for WhatsApp Cloud API
type CloudAPIConfig struct {
	PhoneID     string `json:"phone_id"`
	AccessToken string `json:"access_token"`
	APIVersion  string `json:"api_version"` // default: v18.0
}

// NewCloudAPIProvider creates a new WhatsApp Cloud API provider
func NewCloudAPIProvider(config CloudAPIConfig) (*CloudAPIProvider, error) {
	if config.PhoneID == "" {
		return nil, fmt.Errorf("phone_id is required")
	}
	if config.AccessToken == "" {
		return nil, fmt.Errorf("access_token is required")
	}

	if config.APIVersion == "" {
		config.APIVersion = "v18.0"
	}

	baseURL := fmt.Sprintf("https://graph.facebook.com/%s/%s", config.APIVersion, config.PhoneID)

	return &CloudAPIProvider{
		baseURL:     baseURL,
		phoneID:     config.PhoneID,
		accessToken: config.AccessToken,
		apiVersion:  config.APIVersion,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Connect is a no-op for Cloud API (always connected via HTTP)
func (p *CloudAPIProvider) Connect() error {
	log.Printf("✅ WhatsApp Cloud API initialized (Phone ID: %s)", p.phoneID)
	return nil
}

// Disconnect is a no-op for Cloud API
func (p *CloudAPIProvider) Disconnect() {
	log.Printf("👋 WhatsApp Cloud API disconnected")
}

// SendText sends a plain text message via Cloud API
func (p *CloudAPIProvider) SendText(to, message string) error {
	to = cleanPhoneNumber(to)

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"preview_url": "false",
			"body":        message,
		},
	}

	return p.sendRequest("POST", "/messages", payload)
}

// SendButtons sends a quick-reply button message. The Cloud API caps
// interactive messages at 3 buttons; callers build replies through
// router.NewButtons which already enforces that.
func (p *CloudAPIProvider) SendButtons(to, body string, buttons []router.Button) error {
	to = cleanPhoneNumber(to)

	actions := make([]map[string]interface{}, 0, len(buttons))
	for _, b := range buttons {
		actions = append(actions, map[string]interface{}{
			"type": "reply",
			"reply": map[string]string{
				"id":    b.ID,
				"title": b.Title,
			},
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type": "button",
			"body": map[string]string{"text": body},
			"action": map[string]interface{}{
				"buttons": actions,
			},
		},
	}

	return p.sendRequest("POST", "/messages", payload)
}

// SendList sends a sectioned list message.
func (p *CloudAPIProvider) SendList(to, body, listText string, sections []router.ListSection) error {
	to = cleanPhoneNumber(to)

	if listText == "" {
		listText = "Menu"
	}

	secs := make([]map[string]interface{}, 0, len(sections))
	for _, s := range sections {
		rows := make([]map[string]string, 0, len(s.Rows))
		for _, r := range s.Rows {
			row := map[string]string{
				"id":    r.ID,
				"title": r.Title,
			}
			if r.Description != "" {
				row["description"] = r.Description
			}
			rows = append(rows, row)
		}
		secs = append(secs, map[string]interface{}{
			"title": s.Title,
			"rows":  rows,
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type": "list",
			"body": map[string]string{"text": body},
			"action": map[string]interface{}{
				"button":   listText,
				"sections": secs,
			},
		},
	}

	return p.sendRequest("POST", "/messages", payload)
}

// StartListening is not used for Cloud API (webhook-based)
func (p *CloudAPIProvider) StartListening(handler func(evt interface{})) error {
	return fmt.Errorf("Cloud API uses webhooks, not polling")
}

// GenerateQR is not applicable for Cloud API (uses phone number verification)
func (p *CloudAPIProvider) GenerateQR() ([]byte, error) {
	return nil, fmt.Errorf("Cloud API doesn't use QR codes. Use phone number verification instead")
}

// IsConnected always returns true for Cloud API
func (p *CloudAPIProvider) IsConnected() bool {
	return true
}

// StartKeepAlive is a no-op for Cloud API
func (p *CloudAPIProvider) StartKeepAlive(ctx context.Context) {
}

// GetProviderName returns the provider name
func (p *CloudAPIProvider) GetProviderName() string {
	return "WhatsApp Cloud API (Official)"
}

// MarkMessageAsRead marks a message as read
func (p *CloudAPIProvider) MarkMessageAsRead(messageID string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}

	return p.sendRequest("POST", "/messages", payload)
}

// sendRequest is a helper to make API requests
func (p *CloudAPIProvider) sendRequest(method, endpoint string, payload interface{}) error {
	url := p.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// cleanPhoneNumber removes WhatsApp JID suffix (@c.us, @s.whatsapp.net)
func cleanPhoneNumber(phone string) string {
	for i := 0; i < len(phone); i++ {
		if phone[i] == '@' {
			return phone[:i]
		}
	}
	return phone
}
