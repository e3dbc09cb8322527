package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/datasets"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// MockCommandModule is a mock implementation of CommandModule
type MockCommandModule struct {
	mock.Mock
}

func (m *MockCommandModule) Name() string             { return m.Called().String(0) }
func (m *MockCommandModule) ShortDescription() string { return m.Called().String(0) }
func (m *MockCommandModule) LongDescription() string  { return m.Called().String(0) }
func (m *MockCommandModule) FxModules() []fx.Option {
	return m.Called().Get(0).([]fx.Option)
}
func (m *MockCommandModule) ConfigureCommand(cmd *cobra.Command) { m.Called(cmd) }
func (m *MockCommandModule) Start() error                       { return m.Called().Error(0) }

func TestCreateCommand(t *testing.T) {
	module := new(MockCommandModule)
	module.On("Name").Return("mock")
	module.On("ShortDescription").Return("Mock short")
	module.On("LongDescription").Return("Mock long")
	module.On("ConfigureCommand", mock.AnythingOfType("*cobra.Command")).Run(func(args mock.Arguments) {
		args.Get(0).(*cobra.Command).Run = func(*cobra.Command, []string) {}
	})

	cmd := CreateCommand(module)

	assert.Equal(t, "mock", cmd.Use)
	assert.Equal(t, "Mock short", cmd.Short)
	assert.Equal(t, "Mock long", cmd.Long)
	assert.NotNil(t, cmd.Run)
	module.AssertExpectations(t)
}

func TestRootCommand(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["list"])
	assert.True(t, names["check-version"])

	assert.Equal(t, "c", rootCmd.PersistentFlags().Lookup("config").Shorthand)
	assert.Equal(t, "d", rootCmd.PersistentFlags().Lookup("debug").Shorthand)
	assert.Contains(t, rootCmd.Version, "gitVersion=")
}

func TestCheckVersionCommand_Configure(t *testing.T) {
	c := NewCheckVersionCommand(&bytes.Buffer{})
	cmd := CreateCommand(c)

	assert.Equal(t, "check-version <dataset-id>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("via-proxy"))
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"org/ds"}))
}

func TestFxGraphs(t *testing.T) {
	proxied := NewCheckVersionCommand(io.Discard)
	proxied.viaProxy = "http://localhost:8080"

	graphs := map[string][]fx.Option{
		"serve":                     NewServeCommand().FxModules(),
		"list":                      NewListCommand(io.Discard).FxModules(),
		"check-version":             NewCheckVersionCommand(io.Discard).FxModules(),
		"check-version --via-proxy": proxied.FxModules(),
	}
	for name, modules := range graphs {
		t.Run(name, func(t *testing.T) {
			options := append([]fx.Option{fx.Supply(viper.New())}, modules...)
			require.NoError(t, fx.ValidateApp(options...))
		})
	}
}

type staticFetcher map[string]string

func (f staticFetcher) FetchFile(_ context.Context, datasetID, relativePath string) ([]byte, error) {
	data, ok := f[datasetID+"/"+relativePath]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return []byte(data), nil
}

func TestCheckVersionCommand_Check(t *testing.T) {
	fetcher := staticFetcher{
		"org/new/meta/info.json": `{"codebase_version":"v3.0","features":{}}`,
		"org/old/meta/info.json": `{"codebase_version":"v1.0","features":{}}`,
	}
	out := &bytes.Buffer{}
	c := NewCheckVersionCommand(out)
	c.resolver = datasetinfo.NewResolver(fetcher, nil, logging.Discard())

	c.datasetID = "org/new"
	require.NoError(t, c.check(context.Background()))
	assert.Equal(t, "org/new\tv3.0\n", out.String())

	c.datasetID = "org/old"
	err := c.check(context.Background())
	var unsupported *datasetinfo.UnsupportedVersionError
	assert.True(t, errors.As(err, &unsupported))
}

type listStore struct{}

func (listStore) Provider() storage.Provider { return storage.ProviderS3 }

func (listStore) List(_ context.Context, in storage.ListInput) (*storage.ListOutput, error) {
	switch {
	case in.Prefix == "datasets/" && in.Delimiter == "/":
		return &storage.ListOutput{CommonPrefixes: []string{"datasets/org/"}}, nil
	case in.Prefix == "datasets/org/" && in.Delimiter == "/":
		return &storage.ListOutput{CommonPrefixes: []string{"datasets/org/a/", "datasets/org/b/"}}, nil
	case in.Prefix == "datasets/org/b/":
		return &storage.ListOutput{Contents: []storage.ObjectInfo{{LastModified: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}}}, nil
	default:
		return &storage.ListOutput{}, nil
	}
}

func (listStore) Get(context.Context, string, string) (*storage.Object, error) {
	return nil, storage.ErrNotFound
}

func TestListCommand_Print(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewListCommand(out)
	l.lister = datasets.NewLister(listStore{}, "s3://bucket/datasets/", config.Defaults().Lister, logging.Discard())

	require.NoError(t, l.print(context.Background()))
	assert.Equal(t, "org/b\norg/a\n", out.String())

	out.Reset()
	l.showTimes = true
	require.NoError(t, l.print(context.Background()))
	assert.Equal(t, "2025-02-01T00:00:00Z\torg/b\n1970-01-01T00:00:00Z\torg/a\n", out.String())
}
