package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/sgl-project/dataset-viz/pkg/storage/providers/local"
	_ "github.com/sgl-project/dataset-viz/pkg/storage/providers/s3"
	"github.com/sgl-project/dataset-viz/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:     "dataset-viz",
	Short:   "Run the dataset visualizer backend",
	Long:    "dataset-viz lists datasets in object storage, proxies object reads for browsers and checks dataset metadata compatibility.",
	Version: version.String(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")

	rootCmd.AddCommand(CreateCommand(NewServeCommand()))
	rootCmd.AddCommand(CreateCommand(NewListCommand(os.Stdout)))
	rootCmd.AddCommand(CreateCommand(NewCheckVersionCommand(os.Stdout)))
}
