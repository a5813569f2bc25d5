package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/JaimeStill/pulse/pkg/formatting"
)

const openAIPrompt = `You classify the sentiment of customer feedback.
Respond with a single JSON object and nothing else:
{"label": "positive" | "negative" | "neutral", "confidence": <number 0..1>, "polarity": <number -1..1>}`

type openAIVerdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Polarity   float64 `json:"polarity"`
}

type chatModel struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI returns a chat-completion classifier. It fails when no API key is configured.
func NewOpenAI(cfg *OpenAIConfig) (Model, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &chatModel{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.TimeoutDuration(),
	}, nil
}

func (m *chatModel) Name() string { return ModelOpenAI + ":" + m.model }

func (m *chatModel) Classify(ctx context.Context, text string) (Result, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAIPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyResponse
	}

	verdict, err := formatting.Parse[openAIVerdict](resp.Choices[0].Message.Content)
	if err != nil {
		return Result{}, err
	}

	label := Label(strings.ToLower(strings.TrimSpace(verdict.Label)))
	if !label.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidLabel, verdict.Label)
	}

	return Result{
		Label:      label,
		Confidence: verdict.Confidence,
		Polarity:   verdict.Polarity,
	}, nil
}
