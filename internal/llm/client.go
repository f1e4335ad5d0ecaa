// Package llm runs schema-constrained inference against OpenRouter.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"character-workers/internal/common/logger"

	"github.com/revrost/go-openrouter"
	"github.com/revrost/go-openrouter/jsonschema"
)

const (
	DefaultModel = "openai/gpt-5-mini"

	// onlineSuffix selects the provider's web-search enabled variant of a model.
	onlineSuffix = ":online"
)

var (
	ErrInferenceFailed  = errors.New("INFERENCE_FAILED")
	ErrInferenceTimeout = errors.New("INFERENCE_TIMEOUT")
)

// Request is one structured-output call.
type Request struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     *jsonschema.Definition
	WebSearch  bool
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	AppName string
}

// OpenRouterClient implements Infer over the chat completions endpoint.
type OpenRouterClient struct {
	client *openrouter.Client
	model  string
	logger logger.Logger
}

func NewOpenRouterClient(cfg Config, log logger.Logger) *OpenRouterClient {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []openrouter.Option{}
	if cfg.BaseURL != "" {
		baseURL := strings.TrimRight(cfg.BaseURL, "/")
		opts = append(opts, func(c *openrouter.ClientConfig) { c.BaseURL = baseURL })
	}
	if cfg.AppName != "" {
		opts = append(opts, openrouter.WithXTitle(cfg.AppName))
	}
	client := openrouter.NewClient(cfg.APIKey, opts...)

	return &OpenRouterClient{
		client: client,
		model:  model,
		logger: log.With(map[string]interface{}{"component": "openrouter"}),
	}
}

// Infer returns the model's JSON answer. The answer is only checked to be
// JSON; schema validation is left to the caller.
func (c *OpenRouterClient) Infer(ctx context.Context, req Request) (json.RawMessage, error) {
	model := c.model
	if req.WebSearch && !strings.HasSuffix(model, onlineSuffix) {
		model += onlineSuffix
	}

	messages := make([]openrouter.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{Text: req.System},
		})
	}
	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleUser,
		Content: openrouter.Content{Text: req.Prompt},
	})

	request := openrouter.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "result"
		}
		request.ResponseFormat = &openrouter.ChatCompletionResponseFormat{
			Type: openrouter.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openrouter.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: req.Schema,
				Strict: true,
			},
		}
	}

	response, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrInferenceTimeout, ctx.Err())
		}
		c.logger.Error("chat completion failed", map[string]interface{}{"model": model, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no completion choices returned", ErrInferenceFailed)
	}

	content := trimCodeFence(response.Choices[0].Message.Content.Text)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrInferenceFailed)
	}

	c.logger.Info("chat completion finished", map[string]interface{}{
		"model":     model,
		"webSearch": req.WebSearch,
		"bytes":     len(content),
	})

	return json.RawMessage(content), nil
}

// trimCodeFence unwraps ```json ... ``` blocks some models emit even in
// structured-output mode.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
