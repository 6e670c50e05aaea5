// internal/core/whatsapp/provider.go
package whatsapp

import (
	"context"
	"fmt"
	"os"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
)

// WhatsAppProvider is the interface every WhatsApp transport implements.
// Interactive replies (buttons, lists) are first-class: the Cloud API
// sends them natively, socket providers render them as numbered text.
type WhatsAppProvider interface {
	// Connect initializes the connection to WhatsApp
	Connect() error

	// Disconnect closes the connection
	Disconnect()

	// SendText sends a plain text message
	SendText(phoneNumber, message string) error

	// SendButtons sends a quick-reply button message
	SendButtons(phoneNumber, body string, buttons []router.Button) error

	// SendList sends a sectioned list message
	SendList(phoneNumber, body, listText string, sections []router.ListSection) error

	// StartListening starts listening for incoming messages
	StartListening(handler func(evt interface{})) error

	// GenerateQR generates a pairing QR code (PNG bytes)
	GenerateQR() ([]byte, error)

	// IsConnected checks whether the client is still connected
	IsConnected() bool

	// StartKeepAlive maintains the session (no-op for HTTP providers)
	StartKeepAlive(ctx context.Context)

	// GetProviderName returns the provider name for logging
	GetProviderName() string
}

// ProviderType for the factory
type ProviderType string

const (
	ProviderWhatsmeow ProviderType = "whatsmeow"
	ProviderCloudAPI  ProviderType = "cloud_api"
)

// ProviderConfig configures a provider.
type ProviderConfig struct {
	Type ProviderType

	// Whatsmeow
	StoreURL string

	// Cloud API
	CloudPhoneID     string
	CloudAccessToken string
	CloudAPIVersion  string
}

// NewProvider creates a provider from config.
func NewProvider(cfg *ProviderConfig) (WhatsAppProvider, error) {
	switch cfg.Type {
	case ProviderWhatsmeow:
		return NewWhatsmeowProvider(cfg.StoreURL), nil

	case ProviderCloudAPI:
		if cfg.CloudPhoneID == "" || cfg.CloudAccessToken == "" {
			return nil, fmt.Errorf("WHATSAPP_PHONE_ID and WHATSAPP_ACCESS_TOKEN are required")
		}
		return NewCloudAPIProvider(CloudAPIConfig{
			PhoneID:     cfg.CloudPhoneID,
			AccessToken: cfg.CloudAccessToken,
			APIVersion:  cfg.CloudAPIVersion,
		})

	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv loads provider config from environment variables.
func LoadProviderFromEnv() (*ProviderConfig, error) {
	providerType := os.Getenv("WHATSAPP_PROVIDER")
	if providerType == "" {
		providerType = "whatsmeow" // default
	}

	cfg := &ProviderConfig{
		Type:     ProviderType(providerType),
		StoreURL: os.Getenv("WHATSAPP_STORE_URL"),

		// Cloud API
		CloudPhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
		CloudAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		CloudAPIVersion:  os.Getenv("WHATSAPP_API_VERSION"),
	}

	return cfg, nil
}
