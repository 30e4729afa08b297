package pedal

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownEffect is returned when a kind has no registered factory.
var ErrUnknownEffect = errors.New("unknown effect kind")

var errDuplicateEffect = errors.New("duplicate effect kind")

// Factory builds one effect at the given sample rate.
type Factory func(sampleRate float64) (Effect, error)

// Registry maps effect kinds to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given kind.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return errors.New("empty effect kind")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, factory Factory) {
	err := r.Register(kind, factory)
	if err != nil {
		panic("pedal registry: " + err.Error())
	}
}

// Lookup returns the factory for the given kind, or nil.
func (r *Registry) Lookup(kind string) Factory {
	return r.factories[kind]
}

// New builds an effect of the given kind.
func (r *Registry) New(kind string, sampleRate float64) (Effect, error) {
	factory := r.Lookup(kind)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, kind)
	}

	e, err := factory(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	return e, nil
}

// Kinds returns every registered kind in sorted order.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.factories))
}
