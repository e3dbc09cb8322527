// Package api exposes the dataset lister, storage proxy and version resolver
// over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasetinfo"
	"github.com/sgl-project/dataset-viz/pkg/logging/ginlog"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
)

type datasetLister interface {
	ListRecentDatasets(ctx context.Context) []string
}

type objectFetcher interface {
	FetchObject(ctx context.Context, relativePath string) (*objectproxy.Object, error)
}

type versionResolver interface {
	Resolve(ctx context.Context, datasetID string) (*datasetinfo.Info, string, error)
}

type versionedURLBuilder interface {
	BuildVersionedURL(datasetID, version, relativePath string) string
}

// Server wraps the HTTP routes and their dependencies
type Server struct {
	debug       bool
	config      config.ServerConfig
	lister      datasetLister
	proxy       objectFetcher
	resolver    versionResolver
	urlBuilder  versionedURLBuilder
	urlResolver datasetinfo.ProxyURLResolver
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	logger      *zap.Logger
}

// ServerParams are the fx-injected dependencies of Server.
type ServerParams struct {
	fx.In

	Config      *config.Config
	Lister      datasetLister
	Proxy       objectFetcher
	Resolver    versionResolver
	URLBuilder  versionedURLBuilder
	URLResolver datasetinfo.ProxyURLResolver
	Metrics     *metrics.Metrics    `optional:"true"`
	Gatherer    prometheus.Gatherer `optional:"true"`
	Logger      *zap.Logger
}

// NewServer creates a new API server instance
func NewServer(p ServerParams) *Server {
	return &Server{
		debug:       p.Config.Debug,
		config:      p.Config.Server,
		lister:      p.Lister,
		proxy:       p.Proxy,
		resolver:    p.Resolver,
		urlBuilder:  p.URLBuilder,
		urlResolver: p.URLResolver,
		metrics:     p.Metrics,
		gatherer:    p.Gatherer,
		logger:      p.Logger,
	}
}

// SetupRoutes configures all API routes
func (s *Server) SetupRoutes() *gin.Engine {
	ginMode := gin.ReleaseMode
	if s.debug {
		ginMode = gin.DebugMode
	}
	gin.SetMode(ginMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(ginlog.RequestLogger(s.logger, s.config.RequestLogger.Opts()...))
	router.Use(s.observeRequests())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))
	}

	api := router.Group("/api")
	{
		api.GET("/list-datasets", s.listDatasets)
		api.GET("/s3-proxy", s.s3Proxy)
		api.GET("/dataset-info", s.datasetInfo)
		api.GET("/versioned-url", s.versionedURL)
	}

	s.logger.Info("API routes configured successfully")
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.config.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.config.CORSOrigins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", ginlog.RequestIDHeader}
	cfg.ExposeHeaders = []string{ginlog.RequestIDHeader}
	return cfg
}

func (s *Server) observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
