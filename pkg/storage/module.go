package storage

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/logging"
)

// ConfigFrom extracts the provider settings from the service config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		LocalBaseDir:    cfg.Storage.LocalBaseDir,
	}
}

// ProvideObjectStore creates the ObjectStore serving the configured storage
// root. Providers must already be registered, usually through a blank import
// of their package.
func ProvideObjectStore(cfg *config.Config, logger logging.Interface) (ObjectStore, error) {
	provider := ProviderForRoot(cfg.Storage.Root)
	store, err := globalFactory.Create(context.Background(), provider, ConfigFrom(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage provider %s: %w", provider, err)
	}

	logger.WithField("provider", provider).
		WithField("root", cfg.Storage.Root).
		Info("Object store initialized")
	return store, nil
}

// Module provides the ObjectStore for the configured root.
var Module = fx.Provide(ProvideObjectStore)
