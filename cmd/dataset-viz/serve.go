package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/internal/api"
	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/datasets"
	"github.com/sgl-project/dataset-viz/pkg/hfutil/hub"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// ServeCommand runs the HTTP API until interrupted.
type ServeCommand struct{}

func NewServeCommand() *ServeCommand {
	return &ServeCommand{}
}

func (s *ServeCommand) Name() string {
	return "serve"
}

func (s *ServeCommand) ShortDescription() string {
	return "Serve the dataset visualizer API"
}

func (s *ServeCommand) LongDescription() string {
	return "Serve /api/list-datasets, /api/s3-proxy, /api/dataset-info and /api/versioned-url, plus /health and /metrics."
}

func (s *ServeCommand) ConfigureCommand(cmd *cobra.Command) {
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) {
		runCommand(cmd, s, false)
	}
}

func (s *ServeCommand) FxModules() []fx.Option {
	return []fx.Option{
		logging.Module,
		config.Module,
		metrics.Module,
		storage.Module,
		metrics.InstrumentStoreModule,
		datasets.Module,
		objectproxy.Module,
		hub.Module,
		datasetinfo.Module,
		api.Module,
	}
}

func (s *ServeCommand) Start() error {
	return nil
}
