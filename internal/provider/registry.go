package provider

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"scholarflow/internal/domain"
)

//go:embed config/*.yaml
var configFiles embed.FS

// ModelInfo describes one entry in the embedded model catalog.
type ModelInfo struct {
	ID             string `yaml:"id" json:"id"`
	Provider       string `yaml:"provider" json:"provider"`
	MaxTokens      int    `yaml:"max_tokens" json:"max_tokens"`
	SupportsSearch bool   `yaml:"supports_search" json:"supports_search"`
}

type catalogFile struct {
	Models []ModelInfo `yaml:"models"`
}

// Registry resolves models to provider adapters using the embedded catalog.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider // provider name -> adapter
	catalog   map[string]ModelInfo
	order     []string // model ids in catalog order
}

// NewRegistry creates a registry and loads the embedded model catalog.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model catalog: %w", err)
	}

	r := &Registry{
		providers: make(map[string]Provider),
		catalog:   make(map[string]ModelInfo, len(file.Models)),
	}
	for _, m := range file.Models {
		r.catalog[m.ID] = m
		r.order = append(r.order, m.ID)
	}

	return r, nil
}

// Register adds a provider adapter under its name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// GetForModel returns the provider adapter serving the given model.
// Unknown models fail validation; known models whose provider has no
// configured adapter (missing credential) fail with ErrConfiguration.
func (r *Registry) GetForModel(model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.catalog[model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model '%s'", domain.ErrValidation, model)
	}

	p, ok := r.providers[info.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: provider '%s' is not configured", domain.ErrConfiguration, info.Provider)
	}
	if !p.SupportsModel(model) {
		return nil, fmt.Errorf("%w: provider '%s' does not serve model '%s'", domain.ErrConfiguration, info.Provider, model)
	}

	return p, nil
}

// ModelInfo returns catalog metadata for a model.
func (r *Registry) ModelInfo(model string) (ModelInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.catalog[model]
	return info, ok
}

// Models returns all catalog entries in declaration order.
func (r *Registry) Models() []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ModelInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.catalog[id])
	}
	return out
}
