package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/selfstoragehq/storage-agent-be/internal/engine"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/sanitize"
)

// ReadMarker sends a read receipt for an inbound message. Implemented by
// the whatsapp service.
type ReadMarker interface {
	MarkRead(messageID string) error
}

type WebhookHandler struct {
	engine      *engine.Engine
	marker      ReadMarker
	verifyToken string
}

func NewWebhookHandler(eng *engine.Engine, marker ReadMarker, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		engine:      eng,
		marker:      marker,
		verifyToken: verifyToken,
	}
}

// CloudWebhookPayload is the WhatsApp Cloud API inbound envelope.
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api/webhooks
type CloudWebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				MessagingProduct string         `json:"messaging_product"`
				Messages         []CloudMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// CloudMessage is one inbound message inside a webhook change.
type CloudMessage struct {
	From        string            `json:"from"`
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Type        string            `json:"type"`
	Text        *CloudText        `json:"text,omitempty"`
	Interactive *CloudInteractive `json:"interactive,omitempty"`
}

type CloudText struct {
	Body string `json:"body"`
}

type CloudInteractive struct {
	Type        string      `json:"type"`
	ButtonReply *CloudReply `json:"button_reply,omitempty"`
	ListReply   *CloudReply `json:"list_reply,omitempty"`
}

type CloudReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VerifyWebhook handles Meta's GET verification handshake.
func (h *WebhookHandler) VerifyWebhook(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("✅ Webhook verified")
		return c.SendString(challenge)
	}

	log.Printf("⚠️ Webhook verification failed (mode: %s)", mode)
	return c.SendStatus(fiber.StatusForbidden)
}

// ReceiveWebhook handles inbound Cloud API messages. Always answers 200
// quickly; Meta retries on anything else and the engine handles its own
// failures.
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	var payload CloudWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("❌ Failed to parse webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid payload",
		})
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				env := toEnvelope(msg)
				if env == nil {
					continue
				}
				if h.marker != nil {
					if err := h.marker.MarkRead(msg.ID); err != nil {
						log.Printf("⚠️ Failed to mark message as read: %v", err)
					}
				}
				go h.engine.HandleMessage(context.Background(), env)
			}
		}
	}

	return c.JSON(fiber.Map{"status": "received"})
}

// toEnvelope maps a Cloud API message onto the engine's inbound shape.
// Media, reactions and statuses come back nil; the engine only speaks
// text and interactive replies.
func toEnvelope(msg CloudMessage) *sanitize.Envelope {
	env := &sanitize.Envelope{
		SenderID:  msg.From,
		MessageID: msg.ID,
		Timestamp: parseCloudTimestamp(msg.Timestamp),
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return nil
		}
		env.Type = sanitize.TypeText
		env.Text = msg.Text.Body

	case "interactive":
		if msg.Interactive == nil {
			return nil
		}
		env.Type = sanitize.TypeInteractive
		switch {
		case msg.Interactive.ButtonReply != nil:
			env.Reply = &sanitize.Interactive{
				ID:    msg.Interactive.ButtonReply.ID,
				Title: msg.Interactive.ButtonReply.Title,
			}
		case msg.Interactive.ListReply != nil:
			env.Reply = &sanitize.Interactive{
				ID:    msg.Interactive.ListReply.ID,
				Title: msg.Interactive.ListReply.Title,
			}
		default:
			return nil
		}

	default:
		return nil
	}

	return env
}

// parseCloudTimestamp parses the Cloud API's unix-seconds string.
func parseCloudTimestamp(ts string) time.Time {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.Unix(sec, 0)
}
