package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sgl-project/dataset-viz/pkg/logging"
)

// Constructor builds an ObjectStore for one provider.
type Constructor func(ctx context.Context, config Config, logger logging.Interface) (ObjectStore, error)

// Factory maps providers to constructors. Providers register themselves
// from their package init.
type Factory struct {
	mu           sync.RWMutex
	constructors map[Provider]Constructor
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{constructors: make(map[Provider]Constructor)}
}

// Register adds or replaces the constructor for provider.
func (f *Factory) Register(provider Provider, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[provider] = ctor
}

// Create builds the ObjectStore for provider.
func (f *Factory) Create(ctx context.Context, provider Provider, config Config, logger logging.Interface) (ObjectStore, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[provider]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrNotSupported, provider, f.Providers())
	}
	return ctor(ctx, config, logger)
}

// Providers lists the registered providers in sorted order.
func (f *Factory) Providers() []Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Provider, 0, len(f.constructors))
	for p := range f.constructors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var globalFactory = NewFactory()

// MustRegister registers ctor with the global factory, panicking on a
// duplicate registration.
func MustRegister(provider Provider, ctor Constructor) {
	globalFactory.mu.RLock()
	_, exists := globalFactory.constructors[provider]
	globalFactory.mu.RUnlock()
	if exists {
		panic(fmt.Sprintf("storage: provider %q registered twice", provider))
	}
	globalFactory.Register(provider, ctor)
}

// ProviderForRoot picks the provider serving rawRoot. A root that does not
// parse falls back to S3, so the lister can still report the malformed root
// as an empty result instead of failing startup.
func ProviderForRoot(rawRoot string) Provider {
	root, err := ParseRoot(rawRoot)
	if err != nil {
		return ProviderS3
	}
	return root.Provider()
}
