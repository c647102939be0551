package provider

import (
	"context"
)

// Message is one prior turn in the conversation history sent to a backend.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Tools flags which backend tooling is enabled for a request.
type Tools struct {
	WebSearch bool
}

// Request is the contract the session driver issues for one exchange.
// History carries the prior finalized turns only; Message is the latest
// user prompt and is never duplicated inside History.
type Request struct {
	Model             string
	SystemInstruction string
	Tools             Tools
	History           []Message
	Message           string

	// SearchQuery is the raw user text backing Message, used by retrieval
	// augmentation to avoid searching on template scaffolding. Falls back
	// to Message when empty.
	SearchQuery string
}

// StreamEvent is one item in the asynchronous fragment sequence produced by
// OpenStream. TextFragment carries incremental assistant text; Err carries
// a terminal stream failure. The channel closes on natural completion.
type StreamEvent struct {
	TextFragment string
	Err          error
}

// Provider abstracts a generative-language backend. Implementations exist
// for Anthropic, Gemini (OpenAI-compatible endpoint), and a lorem mock.
type Provider interface {
	// Name returns the provider name (e.g. "anthropic", "gemini", "lorem")
	Name() string

	// SupportsModel returns true if the provider serves the given model.
	SupportsModel(model string) bool

	// OpenStream starts a streaming generation. Fragments are delivered in
	// generation order on the returned channel, which is closed on natural
	// completion. Errors during setup are returned directly; mid-stream
	// failures arrive as a StreamEvent with Err set.
	OpenStream(ctx context.Context, req *Request) (<-chan StreamEvent, error)

	// Generate performs a one-shot, non-streaming generation and returns
	// the full response text. Used for structured-JSON requests such as
	// outline generation.
	Generate(ctx context.Context, req *Request) (string, error)
}
