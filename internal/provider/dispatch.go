package provider

import "context"

// Dispatcher is a Provider that routes each request to the adapter serving
// its model. Resolution happens per request, so a model switch between
// exchanges needs no rewiring.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

func (d *Dispatcher) Name() string {
	return "dispatcher"
}

// SupportsModel reports whether the model exists in the catalog, regardless
// of whether its provider is configured. Resolution errors surface when the
// request is opened.
func (d *Dispatcher) SupportsModel(model string) bool {
	_, ok := d.registry.ModelInfo(model)
	return ok
}

func (d *Dispatcher) OpenStream(ctx context.Context, req *Request) (<-chan StreamEvent, error) {
	p, err := d.registry.GetForModel(req.Model)
	if err != nil {
		return nil, err
	}
	return p.OpenStream(ctx, req)
}

func (d *Dispatcher) Generate(ctx context.Context, req *Request) (string, error) {
	p, err := d.registry.GetForModel(req.Model)
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, req)
}
