package hub

import (
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/logging"
)

// ProvideClient builds a Client from the hub section of the config.
func ProvideClient(cfg *config.Config, logger logging.Interface) *Client {
	return NewClient(ClientConfig{
		Endpoint: cfg.Hub.BaseURL,
		Token:    cfg.Hub.Token,
		Timeout:  cfg.Hub.Timeout,
	}, logger.WithField("component", "hub"))
}

// Module provides the *Client.
var Module = fx.Provide(ProvideClient)
