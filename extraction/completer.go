package extraction

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

type (
	// Completer sends a single prompt to a language model and returns its
	// text reply.
	Completer interface {
		Complete(ctx context.Context, prompt string) (string, error)
	}

	CompletionParams struct {
		Model       string
		MaxTokens   int64
		Temperature float64
	}

	OpenAICompleter struct {
		client openai.Client
		params CompletionParams
	}

	AnthropicCompleter struct {
		client anthropic.Client
		params CompletionParams
	}
)

var (
	_ Completer = (*OpenAICompleter)(nil)
	_ Completer = (*AnthropicCompleter)(nil)
)

func NewOpenAICompleter(apiKey string, params CompletionParams, opts ...option.RequestOption) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "openai api key is required")
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAICompleter{
		client: openai.NewClient(opts...),
		params: params,
	}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.params.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(c.params.MaxTokens),
		Temperature: openai.Float(c.params.Temperature),
	})
	if err != nil {
		return "", errors.Wrap(err, "openai completion failed")
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(errors.ErrContractViolation, "openai returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func NewAnthropicCompleter(apiKey string, params CompletionParams, opts ...anthropicoption.RequestOption) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "anthropic api key is required")
	}
	opts = append([]anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}, opts...)
	return &AnthropicCompleter{
		client: anthropic.NewClient(opts...),
		params: params,
	}, nil
}

func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.params.Model),
		MaxTokens:   c.params.MaxTokens,
		Temperature: anthropic.Float(c.params.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic completion failed")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
