// Package enrich calls a remote chat-completions service to extract task
// payloads from a command. Every failure path returns an error so callers
// can fall back to local parsing; enrichment is never load-bearing.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskwise/internal/core/logging"
	"github.com/colonyops/taskwise/internal/core/nlp"
	"github.com/colonyops/taskwise/internal/core/task"
)

// ErrNoTasks is returned when the service response contains no usable tasks.
var ErrNoTasks = errors.New("enrichment returned no tasks")

// Config holds the remote service settings.
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Client talks to an OpenRouter-compatible chat-completions endpoint.
type Client struct {
	http *resty.Client
	cfg  Config
	log  zerolog.Logger
}

// New creates an enrichment client.
func New(cfg Config) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		http: client,
		cfg:  cfg,
		log:  logging.Component("enrich"),
	}
}

const systemPrompt = `You are a task extraction assistant. Given a user message, extract every task it describes and respond with ONLY a JSON array. Each element has the fields: "text" (string, required), "priority" ("low", "medium", or "high"), "due_date" (YYYY-MM-DD or empty), "category" (string). Today's date is %s. No prose, no markdown fences.`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// rawPayload is the loosely-typed shape the model returns before validation.
type rawPayload struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
	Category string `json:"category"`
}

type contextKey string

const conversationKey contextKey = "conversation"

// WithConversation attaches prior conversation text to the context. The
// client sends it as an extra user message so the model can resolve
// references like "that" or "it".
func WithConversation(ctx context.Context, text string) context.Context {
	if strings.TrimSpace(text) == "" {
		return ctx
	}
	return context.WithValue(ctx, conversationKey, text)
}

// ExtractTasks asks the remote model to parse the message into task
// payloads. Each returned payload has been validated and sanitized; fields
// the model got wrong are dropped, not trusted.
func (c *Client) ExtractTasks(ctx context.Context, message string, now time.Time) ([]task.Payload, error) {
	messages := []chatMessage{
		{Role: "system", Content: fmt.Sprintf(systemPrompt, now.Format(nlp.DateLayout))},
	}
	if conversation, ok := ctx.Value(conversationKey).(string); ok {
		messages = append(messages, chatMessage{Role: "user", Content: "Earlier context: " + conversation})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	req := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}

	var result chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("enrichment request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("enrichment request: status %d", resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return nil, ErrNoTasks
	}

	payloads, err := parseContent(result.Choices[0].Message.Content, now)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Int("tasks", len(payloads)).Msg("enrichment extracted tasks")
	return payloads, nil
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// parseContent pulls the first JSON array out of the model output and
// converts it to validated payloads. Models wrap output in fences or prose
// often enough that strict unmarshal of the whole content is not viable.
func parseContent(content string, now time.Time) ([]task.Payload, error) {
	raw := jsonArrayRe.FindString(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in enrichment response")
	}

	var items []rawPayload
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode enrichment response: %w", err)
	}

	var payloads []task.Payload
	for _, item := range items {
		text := nlp.SanitizePlainText(item.Text)
		if len([]rune(text)) < 2 {
			continue
		}

		p := task.Payload{Text: text}

		if priority, ok := nlp.ParsePriorityWord(item.Priority); ok {
			p.Priority = priority
		} else {
			p.Priority = task.PriorityMedium
		}

		p.DueDate = nlp.NormalizeDueDate(item.DueDate, now)

		if category := strings.ToLower(strings.TrimSpace(item.Category)); category != "" {
			p.Category = nlp.SanitizePlainText(category)
		}

		payloads = append(payloads, p)
	}

	if len(payloads) == 0 {
		return nil, ErrNoTasks
	}
	return payloads, nil
}
