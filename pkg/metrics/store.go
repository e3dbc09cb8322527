package metrics

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/storage"
)

type instrumentedStore struct {
	next    storage.ObjectStore
	metrics *Metrics
}

// InstrumentStore wraps store so every call is counted and timed.
func InstrumentStore(store storage.ObjectStore, m *Metrics) storage.ObjectStore {
	if m == nil {
		return store
	}
	return &instrumentedStore{next: store, metrics: m}
}

func (s *instrumentedStore) Provider() storage.Provider {
	return s.next.Provider()
}

func (s *instrumentedStore) List(ctx context.Context, in storage.ListInput) (*storage.ListOutput, error) {
	start := time.Now()
	out, err := s.next.List(ctx, in)
	s.metrics.ObserveStorageRequest(s.next.Provider(), "list", err, time.Since(start))
	return out, err
}

func (s *instrumentedStore) Get(ctx context.Context, bucket, key string) (*storage.Object, error) {
	start := time.Now()
	obj, err := s.next.Get(ctx, bucket, key)
	s.metrics.ObserveStorageRequest(s.next.Provider(), "get", err, time.Since(start))
	return obj, err
}

// InstrumentStoreModule wraps the app's storage.ObjectStore with InstrumentStore.
var InstrumentStoreModule = fx.Decorate(InstrumentStore)
