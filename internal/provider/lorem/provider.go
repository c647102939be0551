package lorem

import (
	"context"
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	"scholarflow/internal/provider"
)

// Provider is a mock backend that generates lorem ipsum text.
// Used for development and tests without requiring real API keys.
//
// Model name suffixes control behavior:
//   - lorem-fast:    30 words/second
//   - lorem-slow:    2 words/second
//   - lorem-instant: no delay (tests)
//   - lorem-error:   fails mid-stream after two fragments
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// OpenStream streams lorem ipsum word by word at a model-dependent rate.
func (p *Provider) OpenStream(ctx context.Context, req *provider.Request) (<-chan provider.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	delay := streamDelay(req.Model)
	failMidStream := strings.Contains(req.Model, "error")

	text := p.generator.Paragraph(3, 5)
	words := strings.Fields(text)

	events := make(chan provider.StreamEvent, 10)

	go func() {
		defer close(events)

		for i, word := range words {
			select {
			case <-ctx.Done():
				events <- provider.StreamEvent{Err: ctx.Err()}
				return
			default:
			}

			if failMidStream && i == 2 {
				events <- provider.StreamEvent{Err: fmt.Errorf("lorem provider: simulated mid-stream failure")}
				return
			}

			fragment := word
			if i < len(words)-1 {
				fragment += " "
			}
			events <- provider.StreamEvent{TextFragment: fragment}

			if delay > 0 {
				time.Sleep(delay)
			}
		}
	}()

	return events, nil
}

// Generate returns a complete lorem ipsum paragraph.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (string, error) {
	if !p.SupportsModel(req.Model) {
		return "", fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	return p.generator.Paragraph(2, 4), nil
}

// streamDelay returns the delay between words based on the model name.
func streamDelay(model string) time.Duration {
	switch {
	case strings.Contains(model, "instant"), strings.Contains(model, "error"):
		return 0
	case strings.Contains(model, "slow"):
		return 500 * time.Millisecond // 2 words/second
	case strings.Contains(model, "fast"):
		return 33 * time.Millisecond // 30 words/second
	default:
		return 100 * time.Millisecond // 10 words/second
	}
}
