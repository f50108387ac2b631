package provider

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/callanalyzer/logger"
)

// Manager owns the named factories and the providers built from them.
// Get resolves the default provider, or asks the Selector when none is set.
type Manager[T Provider] struct {
	mu          sync.RWMutex
	factories   map[string]Factory[T]
	providers   map[string]T
	defaultName string
	selector    Selector[T]
	log         *logger.Logger
}

// NewManager creates an empty Manager. A nil selector means
// FirstAvailable in name order.
func NewManager[T Provider](selector Selector[T]) *Manager[T] {
	if selector == nil {
		selector = FirstAvailable[T]()
	}
	return &Manager[T]{
		factories: make(map[string]Factory[T]),
		providers: make(map[string]T),
		selector:  selector,
		log:       logger.Get("provider"),
	}
}

// Register adds or replaces the factory for name.
func (m *Manager[T]) Register(name string, factory Factory[T]) {
	m.mu.Lock()
	m.factories[name] = factory
	m.mu.Unlock()
	m.log.Debug("factory registered", logger.Fields(logger.FieldProvider, name))
}

// Factories returns the registered factory names, sorted.
func (m *Manager[T]) Factories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.factories))
}

// Initialize builds the provider for name from cfg, runs its Init hook, and
// stores it. A provider that fails Init is not stored.
func (m *Manager[T]) Initialize(ctx context.Context, name string, cfg map[string]any) error {
	m.mu.RLock()
	factory, ok := m.factories[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("initialize provider %q: factory not registered", name)
	}

	instance, err := factory(cfg)
	if err != nil {
		return fmt.Errorf("initialize provider %q: %w", name, err)
	}
	if init, ok := any(instance).(Initializable); ok {
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("initialize provider %q: %w", name, err)
		}
	}

	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.log.Info("provider initialized", logger.Fields(
		logger.FieldProvider, name,
		"available", instance.IsAvailable(ctx),
	))
	return nil
}

// Get returns the default provider, or the selector's pick when no default
// is set.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.RLock()
	name := m.defaultName
	p, ok := m.providers[name]
	providers := maps.Clone(m.providers)
	m.mu.RUnlock()

	switch {
	case name == "":
		return m.selector(ctx, providers)
	case ok:
		return p, nil
	default:
		var zero T
		return zero, fmt.Errorf("default provider %q not found", name)
	}
}

// GetByName returns an initialized provider.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, fmt.Errorf("provider %q not found", name)
}

// SetDefault pins Get to an initialized provider.
func (m *Manager[T]) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %q not initialized", name)
	}
	m.defaultName = name
	m.log.Info("default provider set", logger.Fields(logger.FieldProvider, name))
	return nil
}

// Default returns the default provider name, empty when unset.
func (m *Manager[T]) Default() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// Available returns the initialized provider names, sorted.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.providers))
}

// Close calls Close on every Closeable provider and joins the failures.
func (m *Manager[T]) Close(ctx context.Context) error {
	m.mu.RLock()
	providers := maps.Clone(m.providers)
	m.mu.RUnlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(providers)) {
		c, ok := any(providers[name]).(Closeable)
		if !ok {
			continue
		}
		if err := c.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close provider %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
