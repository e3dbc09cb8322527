package datasetinfo

import (
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/hfutil/hub"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
)

// FetcherParams are the candidates ProvideFetcher chooses from.
type FetcherParams struct {
	fx.In

	Config *config.Config
	Proxy  *objectproxy.Proxy
	Hub    *hub.Client
}

// ProvideFetcher picks the hub when hub mode is enabled and direct storage
// access otherwise.
func ProvideFetcher(p FetcherParams) Fetcher {
	if p.Config.Hub.Enabled {
		return &HubFetcher{Client: p.Hub, Revision: p.Config.Hub.Revision}
	}
	return &StorageFetcher{Proxy: p.Proxy}
}

// ProvideURLBuilder builds hub URLs in hub mode and proxy markers otherwise.
func ProvideURLBuilder(cfg *config.Config) *URLBuilder {
	if cfg.Hub.Enabled {
		return NewHubURLBuilder(cfg.Hub.BaseURL, cfg.Hub.Revision)
	}
	return NewStorageURLBuilder()
}

// ProvideProxyURLResolver rewrites markers against the public URL when one is
// configured and leaves them alone otherwise.
func ProvideProxyURLResolver(cfg *config.Config) ProxyURLResolver {
	if cfg.Server.PublicURL != "" {
		return BrowserURLResolver{Origin: cfg.Server.PublicURL}
	}
	return ServerURLResolver{}
}

// Module provides the Resolver and its URL helpers.
var Module = fx.Provide(
	ProvideFetcher,
	ProvideURLBuilder,
	ProvideProxyURLResolver,
	ProvideResolver,
)

// ProvideResolver builds the Resolver over whichever Fetcher the app provides.
func ProvideResolver(f Fetcher, m *metrics.Metrics, logger logging.Interface) *Resolver {
	return NewResolver(f, m, logger)
}
