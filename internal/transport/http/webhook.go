package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// MessageIngester records inbound chat messages for later review.
type MessageIngester interface {
	IngestText(ctx context.Context, lineUserID, content string) error
	ListRecent(ctx context.Context) ([]domain.MessageLog, error)
}

type WebhookHandler struct {
	channelSecret string
	messages      MessageIngester
	admins        AdminChecker
	log           *zap.Logger
}

func NewWebhookHandler(channelSecret string, messages MessageIngester, admins AdminChecker, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{channelSecret: channelSecret, messages: messages, admins: admins, log: log}
}

type webhookEvent struct {
	Type   string `json:"type"`
	Source struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
	ReplyToken string `json:"replyToken"`
}

type webhookBody struct {
	Events []webhookEvent `json:"events"`
}

// Receive handles LINE webhook deliveries. LINE retries non-200 responses,
// so processing failures are logged and 200 is returned regardless.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	body := c.Body()
	if !h.validSignature(body, c.Get("X-Line-Signature")) {
		h.log.Warn("webhook signature mismatch")
		return writeError(c, fiber.StatusUnauthorized, codeUnauthenticated, "invalid signature")
	}

	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		h.log.Warn("webhook body unreadable", zap.Error(err))
		return c.SendStatus(fiber.StatusOK)
	}

	for _, event := range payload.Events {
		if event.Type != "message" || event.Message.Type != "text" {
			continue
		}
		if err := h.messages.IngestText(c.Context(), event.Source.UserID, event.Message.Text); err != nil {
			h.log.Error("webhook message ingest failed",
				zap.String("line_user_id", event.Source.UserID),
				zap.Error(err),
			)
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *WebhookHandler) validSignature(body []byte, signature string) bool {
	if h.channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ListMessages returns recent webhook message logs for administrators.
func (h *WebhookHandler) ListMessages(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	logs, err := h.messages.ListRecent(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, 0, len(logs))
	for _, m := range logs {
		out = append(out, fiber.Map{
			"id":         m.ID,
			"lineUserId": m.LineUserID,
			"content":    m.Content,
			"timestamp":  m.Timestamp,
			"category":   string(m.Category),
			"status":     string(m.Status),
			"memberName": m.MemberName,
		})
	}
	return c.JSON(fiber.Map{"messages": out})
}
