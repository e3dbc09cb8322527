package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/configutils"
)

func configProvider(cli *cobra.Command) fx.Option {
	return configutils.ProvideViper(config.EnvPrefix, cli.Flags(), configFilePath)
}
