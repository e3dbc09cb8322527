package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Module provides a validated *Config read from the app's viper.
var Module = fx.Provide(
	func(v *viper.Viper) (*Config, error) {
		c, err := New(WithViper(v))
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid configuration")
		}
		return c, nil
	},
)
