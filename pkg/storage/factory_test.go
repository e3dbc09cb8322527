package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgl-project/dataset-viz/pkg/logging"
)

type stubStore struct{ provider Provider }

func (s stubStore) Provider() Provider { return s.provider }
func (s stubStore) List(context.Context, ListInput) (*ListOutput, error) {
	return &ListOutput{}, nil
}
func (s stubStore) Get(context.Context, string, string) (*Object, error) {
	return nil, ErrNotFound
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	ctx := context.Background()

	_, err := f.Create(ctx, ProviderS3, Config{}, logging.Discard())
	assert.ErrorIs(t, err, ErrNotSupported)

	var gotRegion string
	f.Register(ProviderS3, func(_ context.Context, cfg Config, _ logging.Interface) (ObjectStore, error) {
		gotRegion = cfg.Region
		return stubStore{provider: ProviderS3}, nil
	})
	f.Register(ProviderLocal, func(context.Context, Config, logging.Interface) (ObjectStore, error) {
		return stubStore{provider: ProviderLocal}, nil
	})

	store, err := f.Create(ctx, ProviderS3, Config{Region: "eu-west-1"}, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, ProviderS3, store.Provider())
	assert.Equal(t, "eu-west-1", gotRegion)

	assert.Equal(t, []Provider{ProviderLocal, ProviderS3}, f.Providers())
}

func TestMustRegister_Duplicate(t *testing.T) {
	const p Provider = "test-dup"
	ctor := func(context.Context, Config, logging.Interface) (ObjectStore, error) {
		return stubStore{provider: p}, nil
	}
	MustRegister(p, ctor)
	assert.Panics(t, func() { MustRegister(p, ctor) })
}
