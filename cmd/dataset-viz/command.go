package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sgl-project/dataset-viz/pkg/logging"
)

var configFilePath string
var debug bool

// CommandModule is a subcommand backed by an fx app.
type CommandModule interface {
	Name() string
	ShortDescription() string
	LongDescription() string
	FxModules() []fx.Option

	// ConfigureCommand sets Run, arguments and command-specific flags.
	ConfigureCommand(*cobra.Command)

	// Start does the command's one-shot work after the app has started.
	// Long-running commands do their work in fx lifecycle hooks instead.
	Start() error
}

// CreateCommand creates a cobra command for module
func CreateCommand(module CommandModule) *cobra.Command {
	cmd := &cobra.Command{
		Use:   module.Name(),
		Short: module.ShortDescription(),
		Long:  module.LongDescription(),
	}
	module.ConfigureCommand(cmd)
	return cmd
}

// newApp assembles the fx app for module. With runOnce, Start runs after
// the app starts and the app shuts down when it returns.
func newApp(cmd *cobra.Command, module CommandModule, runOnce bool) *fx.App {
	options := []fx.Option{
		configProvider(cmd),
		logging.UseLoggingInterface,
	}
	options = append(options, module.FxModules()...)

	if runOnce {
		options = append(options, fx.Invoke(func(lc fx.Lifecycle, l *zap.Logger, sh fx.Shutdowner) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						if err := module.Start(); err != nil {
							l.Error(module.Name()+" encountered an error during execution", zap.Error(err))
							_ = sh.Shutdown(fx.ExitCode(1))
							return
						}
						if err := sh.Shutdown(); err != nil {
							l.Error("Failed to shutdown "+module.Name(), zap.Error(err))
						}
					}()
					return nil
				},
			})
		}))
	}

	return fx.New(fx.Options(options...))
}

// runCommand runs module's app until it shuts down and exits with the code
// the app was shut down with.
func runCommand(cmd *cobra.Command, module CommandModule, runOnce bool) {
	app := newApp(cmd, module, runOnce)
	if err := app.Err(); err != nil {
		_, _ = cmd.ErrOrStderr().Write([]byte("ERROR: " + err.Error() + "\n"))
		os.Exit(1)
	}

	if err := app.Start(context.Background()); err != nil {
		os.Exit(1)
	}
	sig := <-app.Wait()
	_ = app.Stop(context.Background())
	if sig.ExitCode != 0 {
		os.Exit(sig.ExitCode)
	}
}
