package local

import (
	"context"

	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

func init() {
	storage.MustRegister(storage.ProviderLocal, func(ctx context.Context, config storage.Config, logger logging.Interface) (storage.ObjectStore, error) {
		return NewLocalProvider(ctx, config, logger)
	})
}
