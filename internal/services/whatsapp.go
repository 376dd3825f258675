package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultOutgoingDebounce suppresses identical texts resent to the same
// recipient within the window (webhook retries would otherwise double every
// prompt).
const DefaultOutgoingDebounce = 1 * time.Second

// WhatsAppService sends messages through the Meta WhatsApp Cloud API
// (graph.facebook.com). With no credentials configured, sends are logged and
// suppressed so the rest of the service keeps working in development.
type WhatsAppService struct {
	token         string
	phoneNumberID string
	apiURL        string
	client        *http.Client

	mu           sync.Mutex
	lastOutgoing map[string]outgoingRecord
	debounce     time.Duration
}

type outgoingRecord struct {
	text string
	at   time.Time
}

// NewWhatsAppService builds a Cloud API sender from WHATSAPP_TOKEN and
// PHONE_NUMBER_ID environment variables.
func NewWhatsAppService() *WhatsAppService {
	token := os.Getenv("WHATSAPP_TOKEN")
	phoneNumberID := os.Getenv("PHONE_NUMBER_ID")

	if token == "" || phoneNumberID == "" {
		log.Println("⚠️  WHATSAPP_TOKEN or PHONE_NUMBER_ID not set - WhatsApp sends will be suppressed")
	}

	return &WhatsAppService{
		token:         token,
		phoneNumberID: phoneNumberID,
		apiURL:        fmt.Sprintf("https://graph.facebook.com/v17.0/%s/messages", phoneNumberID),
		client:        &http.Client{Timeout: 10 * time.Second},
		lastOutgoing:  make(map[string]outgoingRecord),
		debounce:      DefaultOutgoingDebounce,
	}
}

// SendText sends a plain text message.
func (w *WhatsAppService) SendText(to, text string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	return w.send(to, text, payload)
}

// SendButtons sends an interactive message with reply buttons. Button ids
// are derived from the labels ("App Store" → "app_store").
func (w *WhatsAppService) SendButtons(to, text string, buttons []string) error {
	replies := make([]map[string]interface{}, 0, len(buttons))
	for _, label := range buttons {
		replies = append(replies, map[string]interface{}{
			"type": "reply",
			"reply": map[string]string{
				"id":    ButtonID(label),
				"title": label,
			},
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "button",
			"body":   map[string]string{"text": text},
			"action": map[string]interface{}{"buttons": replies},
		},
	}
	return w.send(to, text, payload)
}

// ButtonID normalizes a button label into its reply id.
func ButtonID(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

func (w *WhatsAppService) send(to, text string, payload map[string]interface{}) error {
	if w.token == "" || w.phoneNumberID == "" {
		log.Printf("📤 WhatsApp disabled; skipping send to %s: %s", to, text)
		return nil
	}
	if !w.shouldSend(to, text) {
		log.Printf("Debounced outgoing duplicate to %s", to)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, w.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp send failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("❌ WhatsApp send returned %d: %s", resp.StatusCode, respBody)
		return fmt.Errorf("whatsapp send: status %d", resp.StatusCode)
	}

	w.recordOutgoing(to, text)
	return nil
}

// shouldSend debounces identical consecutive messages to one recipient.
func (w *WhatsAppService) shouldSend(to, text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	last, exists := w.lastOutgoing[to]
	if exists && last.text == text && time.Since(last.at) < w.debounce {
		return false
	}
	return true
}

func (w *WhatsAppService) recordOutgoing(to, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastOutgoing[to] = outgoingRecord{text: text, at: time.Now()}
}
