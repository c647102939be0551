package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"scholarflow/internal/provider"
)

// DefaultBaseURL is Google's OpenAI-compatible endpoint for Gemini models.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Provider implements the provider.Provider interface for Gemini models,
// reached through the OpenAI-compatible API surface.
type Provider struct {
	client *openai.Client
}

// NewProvider creates a new Gemini provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	return NewProviderWithBaseURL(apiKey, DefaultBaseURL)
}

// NewProviderWithBaseURL creates a Gemini provider against a custom
// endpoint. Used by tests to point at a stub server.
func NewProviderWithBaseURL(apiKey, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Provider{
		client: openai.NewClientWithConfig(cfg),
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}

// SupportsModel returns true if this provider supports the given model.
// Gemini models start with "gemini-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// OpenStream starts a streaming chat completion. Fragments are emitted in
// delivery order; the channel closes on natural completion.
func (p *Provider) OpenStream(ctx context.Context, req *provider.Request) (<-chan provider.StreamEvent, error) {
	apiReq, err := p.buildRequest(req)
	if err != nil {
		return nil, err
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("gemini stream setup failed: %w", err)
	}

	events := make(chan provider.StreamEvent, 10)

	go func() {
		defer close(events)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				events <- provider.StreamEvent{Err: fmt.Errorf("gemini streaming error: %w", err)}
				return
			}

			if len(resp.Choices) == 0 {
				continue
			}
			fragment := resp.Choices[0].Delta.Content
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
	}()

	return events, nil
}

// Generate performs a one-shot chat completion and returns the response text.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (string, error) {
	apiReq, err := p.buildRequest(req)
	if err != nil {
		return "", err
	}

	resp, err := p.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gemini returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// buildRequest converts a domain request to an OpenAI-style chat request.
// The system instruction leads, history follows in order, and the current
// user message is appended last.
func (p *Provider) buildRequest(req *provider.Request) (openai.ChatCompletionRequest, error) {
	if !p.SupportsModel(req.Model) {
		return openai.ChatCompletionRequest{}, fmt.Errorf("model '%s' is not supported by Gemini provider", req.Model)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)

	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}

	for i, msg := range req.History {
		var role string
		switch msg.Role {
		case "user":
			role = openai.ChatMessageRoleUser
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		default:
			return openai.ChatCompletionRequest{}, fmt.Errorf("history message %d: unsupported role '%s'", i, msg.Role)
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	return openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}, nil
}
