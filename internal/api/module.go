package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/datasets"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
)

const shutdownTimeout = 10 * time.Second

// NewHTTPServer wraps the routes in an *http.Server listening on the
// configured address.
func NewHTTPServer(cfg *config.Config, s *Server) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// RegisterLifecycle starts srv with the fx app and drains it on stop.
func RegisterLifecycle(lc fx.Lifecycle, srv *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("HTTP server listening", zap.String("address", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			logger.Info("Shutting down HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

// Module provides the Server and *http.Server and runs the latter for the
// lifetime of the fx app.
var Module = fx.Options(
	fx.Provide(
		func(l *datasets.Lister) datasetLister { return l },
		func(p *objectproxy.Proxy) objectFetcher { return p },
		func(r *datasetinfo.Resolver) versionResolver { return r },
		func(b *datasetinfo.URLBuilder) versionedURLBuilder { return b },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		NewServer,
		NewHTTPServer,
	),
	fx.Invoke(RegisterLifecycle),
)
