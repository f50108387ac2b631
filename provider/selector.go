package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
)

// ErrNoProvider is returned when no initialized provider can take a call.
var ErrNoProvider = stderrors.New("no available provider")

// Selector picks a provider when the Manager has no default.
type Selector[T Provider] func(ctx context.Context, providers map[string]T) (T, error)

// FirstAvailable tries the priority names in order, then every other
// provider by name, and returns the first that reports available.
func FirstAvailable[T Provider](priority ...string) Selector[T] {
	return func(ctx context.Context, providers map[string]T) (T, error) {
		rest := make([]string, 0, len(providers))
		for name := range providers {
			if !slices.Contains(priority, name) {
				rest = append(rest, name)
			}
		}
		slices.Sort(rest)

		for _, name := range append(slices.Clone(priority), rest...) {
			if p, ok := providers[name]; ok && p.IsAvailable(ctx) {
				return p, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("%w among %d initialized", ErrNoProvider, len(providers))
	}
}
