package provider

import "fmt"

// Registry holds the providers known to the process. It is built once at
// startup and only read afterwards.
type Registry struct {
	order []Provider
	byKey map[string]Provider
}

// NewRegistry registers providers in order. Two providers with the same slug
// is a programming error.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{
		order: make([]Provider, 0, len(providers)),
		byKey: make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		key := Slug(p.Name())
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("provider %q registered twice", p.Name())
		}
		r.byKey[key] = p
		r.order = append(r.order, p)
	}
	return r, nil
}

// Lookup finds a provider by name, ignoring case.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.byKey[Slug(name)]
	return p, ok
}

// Names returns the display names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, p := range r.order {
		names[i] = p.Name()
	}
	return names
}

// All returns the providers in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, len(r.order))
	copy(out, r.order)
	return out
}
