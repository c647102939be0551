package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"scholarflow/internal/provider"
)

const defaultMaxTokens = 4096

// Provider implements the provider.Provider interface for Anthropic
// (Claude) models.
type Provider struct {
	client    *anthropic.Client
	maxTokens int64
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{
		client:    &client,
		maxTokens: defaultMaxTokens,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// OpenStream starts a streaming generation from Claude. Fragments are
// emitted in delivery order; the channel closes on natural completion.
func (p *Provider) OpenStream(ctx context.Context, req *provider.Request) (<-chan provider.StreamEvent, error) {
	apiParams, err := p.buildParams(req)
	if err != nil {
		return nil, err
	}

	// Buffered to prevent blocking the SDK's event loop
	events := make(chan provider.StreamEvent, 10)

	go func() {
		defer close(events)

		stream := p.client.Messages.NewStreaming(ctx, apiParams)

		for stream.Next() {
			event := stream.Current()

			fragment := textFragment(event)
			if fragment == "" {
				continue
			}

			select {
			case <-ctx.Done():
				events <- provider.StreamEvent{Err: ctx.Err()}
				return
			case events <- provider.StreamEvent{TextFragment: fragment}:
			}
		}

		if err := stream.Err(); err != nil {
			events <- provider.StreamEvent{Err: fmt.Errorf("anthropic streaming error: %w", err)}
		}
	}()

	return events, nil
}

// Generate performs a one-shot generation and returns the concatenated text
// content of the response.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (string, error) {
	apiParams, err := p.buildParams(req)
	if err != nil {
		return "", err
	}

	message, err := p.client.Messages.New(ctx, apiParams)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	return sb.String(), nil
}

// buildParams converts a domain request to Anthropic SDK parameters.
// History is carried as prior messages; the current user message is
// appended last so it is never duplicated into the history itself.
func (p *Provider) buildParams(req *provider.Request) (anthropic.MessageNewParams, error) {
	if !p.SupportsModel(req.Model) {
		return anthropic.MessageNewParams{}, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)

	for i, msg := range req.History {
		switch msg.Role {
		case "user":
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("history message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Message)))

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: p.maxTokens,
	}

	if req.SystemInstruction != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: req.SystemInstruction,
			},
		}
	}

	return apiParams, nil
}

// textFragment extracts incremental text from a streaming event.
// Only content_block_delta text deltas carry assistant text; block starts,
// message metadata, and stop events yield nothing.
func textFragment(event anthropic.MessageStreamEventUnion) string {
	switch e := event.AsAny().(type) {
	case anthropic.ContentBlockDeltaEvent:
		if e.Delta.Type == "text_delta" {
			return e.Delta.Text
		}
	}
	return ""
}
