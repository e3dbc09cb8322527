package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/hfutil/hub"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// CheckVersionCommand reports whether a dataset's codebase version is
// supported.
type CheckVersionCommand struct {
	out       io.Writer
	resolver  *datasetinfo.Resolver
	datasetID string
	viaProxy  string
}

func NewCheckVersionCommand(out io.Writer) *CheckVersionCommand {
	return &CheckVersionCommand{out: out}
}

func (c *CheckVersionCommand) Name() string {
	return "check-version"
}

func (c *CheckVersionCommand) ShortDescription() string {
	return "Check that a dataset's codebase version is supported"
}

func (c *CheckVersionCommand) LongDescription() string {
	return "Read <dataset-id>/meta/info.json and report its codebase version. " +
		"With --via-proxy the file is read through a running server's /api/s3-proxy endpoint, " +
		"so no storage credentials are needed."
}

func (c *CheckVersionCommand) ConfigureCommand(cmd *cobra.Command) {
	cmd.Use = c.Name() + " <dataset-id>"
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().StringVar(&c.viaProxy, "via-proxy", "", "origin of a running server to read through, e.g. http://localhost:8080")
	cmd.Run = func(cmd *cobra.Command, args []string) {
		c.datasetID = args[0]
		runCommand(cmd, c, true)
	}
}

func (c *CheckVersionCommand) FxModules() []fx.Option {
	options := []fx.Option{
		logging.Module,
		config.Module,
		metrics.Module,
		fx.Invoke(func(r *datasetinfo.Resolver) {
			c.resolver = r
		}),
	}
	if c.viaProxy != "" {
		return append(options, fx.Provide(
			func(cfg *config.Config) datasetinfo.Fetcher {
				return &datasetinfo.ProxyEndpointFetcher{
					Origin:     c.viaProxy,
					HTTPClient: &http.Client{Transport: hub.GetHTTPClient().Transport, Timeout: cfg.Hub.Timeout},
					MaxBytes:   cfg.Storage.MaxObjectBytes,
				}
			},
			datasetinfo.ProvideResolver,
		))
	}
	return append(options,
		storage.Module,
		metrics.InstrumentStoreModule,
		objectproxy.Module,
		hub.Module,
		datasetinfo.Module,
	)
}

func (c *CheckVersionCommand) Start() error {
	return c.check(context.Background())
}

func (c *CheckVersionCommand) check(ctx context.Context) error {
	version, err := c.resolver.GetDatasetVersion(ctx, c.datasetID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s\t%s\n", c.datasetID, version)
	return err
}
