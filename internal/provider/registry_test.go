package provider

import (
	"context"
	"errors"
	"testing"

	"scholarflow/internal/domain"
)

// stubProvider serves every model for a fixed provider name.
type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string                    { return s.name }
func (s *stubProvider) SupportsModel(model string) bool { return true }

func (s *stubProvider) OpenStream(ctx context.Context, req *Request) (<-chan StreamEvent, error) {
	ch := make(chan StreamEvent)
	close(ch)
	return ch, nil
}

func (s *stubProvider) Generate(ctx context.Context, req *Request) (string, error) {
	return "stub output", nil
}

func TestRegistryLoadsEmbeddedCatalog(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	models := r.Models()
	if len(models) == 0 {
		t.Fatal("catalog is empty")
	}

	// Catalog order is declaration order.
	if models[0].ID != "claude-haiku-4-5-20251001" {
		t.Errorf("models[0].ID = %q, want claude-haiku-4-5-20251001", models[0].ID)
	}

	info, ok := r.ModelInfo("lorem-fast")
	if !ok {
		t.Fatal("lorem-fast missing from catalog")
	}
	if info.Provider != "lorem" {
		t.Errorf("lorem-fast provider = %q, want lorem", info.Provider)
	}
}

func TestRegistryGetForModel(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	r.Register(&stubProvider{name: "lorem"})

	tests := []struct {
		name    string
		model   string
		wantErr error
	}{
		{
			name:  "registered provider",
			model: "lorem-fast",
		},
		{
			name:    "unknown model",
			model:   "gpt-99-ultra",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "known model, unconfigured provider",
			model:   "gemini-2.5-flash",
			wantErr: domain.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.GetForModel(tt.model)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetForModel(%q) err = %v, want %v", tt.model, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetForModel(%q): %v", tt.model, err)
			}
			if p.Name() != "lorem" {
				t.Errorf("provider = %q, want lorem", p.Name())
			}
		})
	}
}

func TestDispatcherRoutesByModel(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	r.Register(&stubProvider{name: "lorem"})

	d := NewDispatcher(r)

	if !d.SupportsModel("lorem-fast") {
		t.Error("SupportsModel(lorem-fast) = false, model is in the catalog")
	}
	if d.SupportsModel("made-up-model") {
		t.Error("SupportsModel(made-up-model) = true")
	}

	out, err := d.Generate(context.Background(), &Request{Model: "lorem-fast"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "stub output" {
		t.Errorf("Generate = %q, want stub output", out)
	}

	// Catalog model whose provider is missing resolves at request time.
	_, err = d.Generate(context.Background(), &Request{Model: "gemini-2.5-flash"})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("Generate err = %v, want ErrConfiguration", err)
	}
}
