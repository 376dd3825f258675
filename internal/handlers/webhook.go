package handlers

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/kalagato/valuebot-backend/internal/services"
)

// WhatsAppHandler handles the Meta WhatsApp Cloud API webhook: the GET
// verification handshake and POST event notifications. Events pass through
// the dedup filter before reaching the dialogue engine.
type WhatsAppHandler struct {
	engine      *services.DialogueEngine
	deduper     *services.Deduper
	verifyToken string
}

// NewWhatsAppHandler creates a new webhook handler
func NewWhatsAppHandler(engine *services.DialogueEngine, deduper *services.Deduper) *WhatsAppHandler {
	verifyToken := os.Getenv("VERIFY_TOKEN")
	if verifyToken == "" {
		verifyToken = "verify_token"
	}
	return &WhatsAppHandler{
		engine:      engine,
		deduper:     deduper,
		verifyToken: verifyToken,
	}
}

// WebhookPayload is the Cloud API event envelope
// (entry → changes → value → messages).
type WebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []IncomingMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// IncomingMessage is one inbound message: free text or an interactive
// button reply.
type IncomingMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply,omitempty"`
	} `json:"interactive,omitempty"`
}

// HandleVerify answers Meta's GET verification handshake.
func (h *WhatsAppHandler) HandleVerify(c *fiber.Ctx) error {
	if c.Query("hub.verify_token") == h.verifyToken {
		return c.SendString(c.Query("hub.challenge"))
	}
	return c.Status(fiber.StatusForbidden).SendString("Invalid verification token")
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.From == "" {
					continue
				}

				// Webhook retries redeliver the same message id;
				// drop them before they reach the engine.
				msgID := msg.ID
				if msgID == "" {
					msgID = msg.Timestamp
				}
				if h.deduper.Seen(msgID) {
					log.Printf("Ignoring duplicate incoming message id: %s", msgID)
					continue
				}

				input, isButton := extractInput(msg)
				log.Printf("📱 WhatsApp message from %s: %q (button=%v)", msg.From, input, isButton)
				h.engine.HandleEvent(msg.From, input, isButton)
			}
		}
	}

	// Always acknowledge; Meta redelivers on anything but a 200.
	return c.SendStatus(fiber.StatusOK)
}

// extractInput prefers the interactive button reply id over free text.
func extractInput(msg IncomingMessage) (input string, isButton bool) {
	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.ID, true
	}
	if msg.Text != nil {
		return msg.Text.Body, false
	}
	return "", false
}

// TestWebhookPayload is the body of the development-only test endpoint.
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook feeds a message into the engine without going through
// Meta (for development).
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook received from %s: %s", payload.From, payload.Message)
	h.engine.HandleEvent(payload.From, payload.Message, false)

	return c.JSON(fiber.Map{
		"success": true,
	})
}
