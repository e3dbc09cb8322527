package configutils

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// NewViper builds a viper reading envPrefix_* environment variables, the
// --debug flag from pflags when present, and configFilePath when non-empty.
// Environment variables override file values.
func NewViper(envPrefix string, pflags *pflag.FlagSet, configFilePath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if pflags != nil {
		if f := pflags.Lookup("debug"); f != nil {
			if err := v.BindPFlag("debug", f); err != nil {
				return nil, fmt.Errorf("can't bind debug flag: %w", err)
			}
		}
	}

	if configFilePath != "" {
		if err := ResolveAndMergeFile(v, configFilePath); err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}
	return v, nil
}

// ProvideViper provides the *viper.Viper built by NewViper to an fx app.
func ProvideViper(envPrefix string, pflags *pflag.FlagSet, configFilePath string) fx.Option {
	return fx.Provide(func() (*viper.Viper, error) {
		return NewViper(envPrefix, pflags, configFilePath)
	})
}
