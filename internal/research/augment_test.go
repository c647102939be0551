package research

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"scholarflow/internal/provider"
)

type captureProvider struct {
	lastReq *provider.Request
}

func (c *captureProvider) Name() string                    { return "capture" }
func (c *captureProvider) SupportsModel(model string) bool { return true }

func (c *captureProvider) OpenStream(ctx context.Context, req *provider.Request) (<-chan provider.StreamEvent, error) {
	c.lastReq = req
	ch := make(chan provider.StreamEvent)
	close(ch)
	return ch, nil
}

func (c *captureProvider) Generate(ctx context.Context, req *provider.Request) (string, error) {
	c.lastReq = req
	return "", nil
}

type fakeSearch struct {
	lastQuery string
	results   []SearchResult
	err       error
}

func (f *fakeSearch) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &SearchResponse{Results: f.results, Query: query}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAugmentorPassesThroughWithoutTool(t *testing.T) {
	inner := &captureProvider{}
	search := &fakeSearch{results: []SearchResult{{Title: "unused"}}}
	a := NewAugmentor(inner, search, discardLogger())

	req := &provider.Request{
		Model:             "lorem-fast",
		SystemInstruction: "base",
		Message:           "plain question",
	}
	if _, err := a.OpenStream(context.Background(), req); err != nil {
		t.Fatalf("OpenStream: %v", err)
	}

	if inner.lastReq != req {
		t.Error("request without web search was copied or modified")
	}
	if search.lastQuery != "" {
		t.Errorf("search ran for a request without the tool: %q", search.lastQuery)
	}
}

func TestAugmentorInjectsResults(t *testing.T) {
	inner := &captureProvider{}
	search := &fakeSearch{results: []SearchResult{
		{Title: "Entropy in Information Theory", URL: "https://example.org/entropy", Snippet: "Shannon entropy measures..."},
		{Title: "Thermodynamic Entropy", URL: "https://example.org/thermo"},
	}}
	a := NewAugmentor(inner, search, discardLogger())

	req := &provider.Request{
		Model:             "lorem-fast",
		SystemInstruction: "base instruction",
		Tools:             provider.Tools{WebSearch: true},
		Message:           "RESEARCH REQUEST: entropy\n\n...",
		SearchQuery:       "entropy",
	}
	if _, err := a.OpenStream(context.Background(), req); err != nil {
		t.Fatalf("OpenStream: %v", err)
	}

	// The raw user text drives retrieval, not the templated prompt.
	if search.lastQuery != "entropy" {
		t.Errorf("search query = %q, want entropy", search.lastQuery)
	}

	got := inner.lastReq.SystemInstruction
	if !strings.HasPrefix(got, "base instruction") {
		t.Errorf("base instruction lost: %q", got)
	}
	if !strings.Contains(got, "Entropy in Information Theory") || !strings.Contains(got, "https://example.org/entropy") {
		t.Errorf("results missing from instruction: %q", got)
	}

	// Original request is never mutated.
	if req.SystemInstruction != "base instruction" {
		t.Errorf("caller's request mutated: %q", req.SystemInstruction)
	}
}

func TestAugmentorDegradesOnSearchFailure(t *testing.T) {
	inner := &captureProvider{}
	search := &fakeSearch{err: errors.New("tavily unavailable")}
	a := NewAugmentor(inner, search, discardLogger())

	req := &provider.Request{
		Model:             "lorem-fast",
		SystemInstruction: "base",
		Tools:             provider.Tools{WebSearch: true},
		Message:           "question",
		SearchQuery:       "question",
	}
	if _, err := a.OpenStream(context.Background(), req); err != nil {
		t.Fatalf("OpenStream failed instead of degrading: %v", err)
	}

	if inner.lastReq.SystemInstruction != "base" {
		t.Errorf("failed search still altered instruction: %q", inner.lastReq.SystemInstruction)
	}
}

func TestAugmentorWithoutSearchClient(t *testing.T) {
	inner := &captureProvider{}
	a := NewAugmentor(inner, nil, discardLogger())

	req := &provider.Request{
		Model:   "lorem-fast",
		Tools:   provider.Tools{WebSearch: true},
		Message: "question",
	}
	if _, err := a.OpenStream(context.Background(), req); err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	if inner.lastReq != req {
		t.Error("request modified despite missing search client")
	}
}

func TestAugmentorFallsBackToMessageQuery(t *testing.T) {
	inner := &captureProvider{}
	search := &fakeSearch{results: []SearchResult{{Title: "t", URL: "u"}}}
	a := NewAugmentor(inner, search, discardLogger())

	req := &provider.Request{
		Model:   "lorem-fast",
		Tools:   provider.Tools{WebSearch: true},
		Message: "the message itself",
	}
	if _, err := a.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if search.lastQuery != "the message itself" {
		t.Errorf("search query = %q, want message fallback", search.lastQuery)
	}
}
