// Package assistant asks an OpenAI-compatible model to write study dumps.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"study-importer/internal/logger"
)

var (
	ErrMissingAPIKey = errors.New("OpenAI API key is not configured")
	ErrEmptyNotes    = errors.New("notes are empty")
	ErrEmptyResponse = errors.New("the model returned an empty response")
)

const requestTimeout = 130 * time.Second

// Models offered in the interactive model picker.
var Models = []string{"gpt-5-mini", "gpt-5", "gpt-4.1-mini", "gpt-4o-mini"}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Client struct {
	api   openai.Client
	model string
	log   *logger.Logger
}

// New fails with ErrMissingAPIKey before any request can be made.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = logger.Nop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = Models[0]
	}
	return &Client{api: openai.NewClient(opts...), model: model, log: log}, nil
}

type DumpRequest struct {
	Notes string
	Style Style
	Count int
	// Model overrides the configured model when set.
	Model string
}

// GenerateDump returns the raw study dump text. The caller parses it.
func (c *Client) GenerateDump(ctx context.Context, req DumpRequest) (string, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return "", ErrEmptyNotes
	}
	model := c.model
	if m := strings.TrimSpace(req.Model); m != "" {
		model = m
	}
	system, user := BuildPrompts(req.Notes, req.Style, req.Count)

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(1),
	})
	if err != nil {
		c.log.Warn("chat completion failed", "model", model, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	c.log.Info("study dump generated",
		"model", model,
		"style", req.Style,
		"elapsed", time.Since(start).String(),
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp.Choices[0].Message.Content, nil
}
