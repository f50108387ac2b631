package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/callanalyzer/logger"
)

const stopTimeout = 10 * time.Second

// Registry starts components in registration order and stops them in
// reverse. Only the prefix that started successfully is ever stopped.
type Registry struct {
	mu         sync.RWMutex
	components []Component
	index      map[string]int
	started    int
	log        *logger.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
		log:   logger.Get("component"),
	}
}

// Register appends c. Dependencies must be registered first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.index[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.index[name] = len(r.components)
	r.components = append(r.components, c)
	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts the components that are not running yet. It stops at the
// first failure and leaves the earlier ones running for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ; r.started < len(r.components); r.started++ {
		c := r.components[r.started]
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields(logger.FieldComponent, c.Name(), "error", err.Error()))
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		r.log.Info("Component started", describe(c))
	}
	return nil
}

// StopAll stops the running components newest first, each bounded by its
// own timeout, and joins the failures.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for ; r.started > 0; r.started-- {
		c := r.components[r.started-1]
		if err := stopOne(ctx, c); err != nil {
			r.log.Error("Component stop failed", logger.Fields(logger.FieldComponent, c.Name(), "error", err.Error()))
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			continue
		}
		r.log.Debug("Component stopped", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return errors.Join(errs...)
}

func stopOne(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll reports every component in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.components))
	for i, c := range r.components {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component registered as name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index[name]; ok {
		return r.components[i]
	}
	return nil
}

func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Component(nil), r.components...)
}

func describe(c Component) map[string]interface{} {
	fields := logger.Fields(logger.FieldComponent, c.Name())
	d, ok := c.(Describable)
	if !ok {
		return fields
	}
	desc := d.Describe()
	for k, v := range map[string]string{"name": desc.Name, "type": desc.Type, "details": desc.Details} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}
