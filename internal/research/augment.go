package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scholarflow/internal/provider"
)

const defaultMaxResults = 5

// Augmentor wraps a provider and, when a request asks for the web-search
// tool, runs a retrieval query first and injects the results into the
// system instruction. Requests without the tool pass through untouched.
//
// Retrieval failure degrades to an unaugmented request rather than failing
// the exchange: a research answer without fresh sources beats no answer.
type Augmentor struct {
	inner  provider.Provider
	search SearchClient
	logger *slog.Logger
}

// NewAugmentor wraps inner with retrieval augmentation. search may be nil
// when no search credential is configured; augmentation is then skipped.
func NewAugmentor(inner provider.Provider, search SearchClient, logger *slog.Logger) *Augmentor {
	return &Augmentor{
		inner:  inner,
		search: search,
		logger: logger,
	}
}

// Name returns the wrapped provider's name.
func (a *Augmentor) Name() string {
	return a.inner.Name()
}

// SupportsModel defers to the wrapped provider.
func (a *Augmentor) SupportsModel(model string) bool {
	return a.inner.SupportsModel(model)
}

// OpenStream augments the request when web search is enabled, then streams
// from the wrapped provider.
func (a *Augmentor) OpenStream(ctx context.Context, req *provider.Request) (<-chan provider.StreamEvent, error) {
	return a.inner.OpenStream(ctx, a.augment(ctx, req))
}

// Generate augments the request when web search is enabled, then generates
// from the wrapped provider.
func (a *Augmentor) Generate(ctx context.Context, req *provider.Request) (string, error) {
	return a.inner.Generate(ctx, a.augment(ctx, req))
}

// augment returns req unchanged, or a copy with search results appended to
// the system instruction. req itself is never mutated.
func (a *Augmentor) augment(ctx context.Context, req *provider.Request) *provider.Request {
	if !req.Tools.WebSearch {
		return req
	}
	if a.search == nil {
		a.logger.Warn("web search requested but no search client configured")
		return req
	}

	query := req.SearchQuery
	if query == "" {
		query = req.Message
	}

	resp, err := a.search.Search(ctx, query, SearchOptions{
		MaxResults:  defaultMaxResults,
		SearchDepth: "advanced",
	})
	if err != nil {
		a.logger.Warn("web search failed, continuing without retrieval context",
			"query", query,
			"error", err,
		)
		return req
	}
	if len(resp.Results) == 0 {
		a.logger.Info("web search returned no results", "query", query)
		return req
	}

	augmented := *req
	augmented.SystemInstruction = req.SystemInstruction + formatResults(resp.Results)

	a.logger.Info("request augmented with search results",
		"query", query,
		"results", len(resp.Results),
	)

	return &augmented
}

// formatResults renders search results as a context section the model can
// cite from.
func formatResults(results []SearchResult) string {
	var sb strings.Builder
	sb.WriteString("\n\nWeb search results for the current request:\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, r.Title, r.URL))
		if r.Snippet != "" {
			sb.WriteString("   ")
			sb.WriteString(r.Snippet)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("Cite these sources by title and URL where relevant.")
	return sb.String()
}
