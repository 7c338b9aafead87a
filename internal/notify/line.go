// Package notify pushes messages to members over the LINE messaging API.
// Delivery is best effort: failures are logged and reported, never allowed
// to break the operation that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.line.me/v2/bot"

// Message is a LINE message object. Only text messages are produced here;
// the Type/Text split mirrors the wire format.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func TextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// Client calls the LINE messaging API behind a circuit breaker so a LINE
// outage cannot pile up blocked requests inside the API server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

type Option func(*Client)

// WithBaseURL overrides the LINE API endpoint (tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func New(token string, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		log:        log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "line-messaging",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push sends messages to a single recipient.
func (c *Client) Push(ctx context.Context, to string, messages ...Message) error {
	return c.post(ctx, "/message/push", map[string]any{"to": to, "messages": messages})
}

// Multicast sends messages to up to 500 recipients.
func (c *Client) Multicast(ctx context.Context, to []string, messages ...Message) error {
	if len(to) == 0 {
		return nil
	}
	return c.post(ctx, "/message/multicast", map[string]any{"to": to, "messages": messages})
}

// Broadcast sends messages to every friend of the channel.
func (c *Client) Broadcast(ctx context.Context, text string) error {
	return c.post(ctx, "/message/broadcast", map[string]any{"messages": []Message{TextMessage(text)}})
}

// Reply answers a webhook event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...Message) error {
	return c.post(ctx, "/message/reply", map[string]any{"replyToken": replyToken, "messages": messages})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	if c.token == "" {
		c.log.Warn("line channel token not configured, skipping message", zap.String("path", path))
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode line payload: %w", err)
	}

	_, err = c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, fmt.Errorf("line api %s returned %d: %s", path, resp.StatusCode, detail)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	return nil
}
