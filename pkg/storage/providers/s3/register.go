package s3

import (
	"context"

	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

func init() {
	storage.MustRegister(storage.ProviderS3, func(ctx context.Context, config storage.Config, logger logging.Interface) (storage.ObjectStore, error) {
		return NewS3Provider(ctx, config, logger)
	})
}
