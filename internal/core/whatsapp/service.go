// internal/core/whatsapp/service.go
package whatsapp

import (
	"context"
	"fmt"
	"log"

	"github.com/selfstoragehq/storage-agent-be/internal/engine/router"
)

// Service wraps a WhatsApp provider. This is the layer the application
// uses; it satisfies the engine's ReplySender interface.
type Service struct {
	provider WhatsAppProvider
}

// NewService creates the service with the provider from environment.
func NewService(storeURL string) *Service {
	cfg, err := LoadProviderFromEnv()
	if err != nil {
		log.Fatalf("❌ Failed to load provider config: %v", err)
	}

	// Override storeURL if given
	if storeURL != "" {
		cfg.StoreURL = storeURL
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create provider: %v", err)
	}

	log.Printf("✅ Using WhatsApp provider: %s", provider.GetProviderName())

	return &Service{
		provider: provider,
	}
}

// NewServiceWithProvider creates the service with a specific provider (for testing).
func NewServiceWithProvider(provider WhatsAppProvider) *Service {
	return &Service{
		provider: provider,
	}
}

// Connect starts the WhatsApp connection
func (s *Service) Connect() error {
	return s.provider.Connect()
}

// Disconnect closes the connection
func (s *Service) Disconnect() {
	s.provider.Disconnect()
}

// SendReply dispatches an outbound reply to the provider call matching
// its shape.
func (s *Service) SendReply(to string, reply router.Reply) error {
	switch reply.Type {
	case router.ReplyText:
		return s.provider.SendText(to, reply.Body)
	case router.ReplyButtons:
		return s.provider.SendButtons(to, reply.Body, reply.Buttons)
	case router.ReplyList:
		return s.provider.SendList(to, reply.Body, reply.ListText, reply.Sections)
	default:
		return fmt.Errorf("unknown reply type: %s", reply.Type)
	}
}

// SendText sends a plain text message
func (s *Service) SendText(phoneNumber, message string) error {
	return s.provider.SendText(phoneNumber, message)
}

// MarkRead sends a read receipt for an inbound message on providers that
// support it; the socket provider acknowledges at the protocol level, so
// it is a no-op there.
func (s *Service) MarkRead(messageID string) error {
	if marker, ok := s.provider.(interface{ MarkMessageAsRead(string) error }); ok {
		return marker.MarkMessageAsRead(messageID)
	}
	return nil
}

// StartListening starts listening for incoming messages
func (s *Service) StartListening(handler func(evt interface{})) error {
	return s.provider.StartListening(handler)
}

// GenerateQR generates a pairing QR code
func (s *Service) GenerateQR() ([]byte, error) {
	return s.provider.GenerateQR()
}

// IsConnected checks connection status
func (s *Service) IsConnected() bool {
	return s.provider.IsConnected()
}

// StartKeepAlive maintains the session
func (s *Service) StartKeepAlive(ctx context.Context) {
	s.provider.StartKeepAlive(ctx)
}

// GetProviderName returns the active provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
