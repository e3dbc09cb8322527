package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/datasets"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// ListCommand prints the most recently modified datasets.
type ListCommand struct {
	out    io.Writer
	lister *datasets.Lister

	showTimes bool
}

func NewListCommand(out io.Writer) *ListCommand {
	return &ListCommand{out: out}
}

func (l *ListCommand) Name() string {
	return "list"
}

func (l *ListCommand) ShortDescription() string {
	return "List the most recently modified datasets"
}

func (l *ListCommand) LongDescription() string {
	return "List <org>/<dataset> directories under the storage root, most recently modified first."
}

func (l *ListCommand) ConfigureCommand(cmd *cobra.Command) {
	cmd.Args = cobra.NoArgs
	cmd.Flags().BoolVar(&l.showTimes, "show-times", false, "print the modification time next to each dataset")
	cmd.Run = func(cmd *cobra.Command, args []string) {
		runCommand(cmd, l, true)
	}
}

func (l *ListCommand) FxModules() []fx.Option {
	return []fx.Option{
		logging.Module,
		config.Module,
		storage.Module,
		datasets.Module,
		fx.Invoke(func(lister *datasets.Lister) {
			l.lister = lister
		}),
	}
}

func (l *ListCommand) Start() error {
	return l.print(context.Background())
}

func (l *ListCommand) print(ctx context.Context) error {
	for _, entry := range l.lister.ListRecent(ctx) {
		var err error
		if l.showTimes {
			_, err = fmt.Fprintf(l.out, "%s\t%s\n", entry.LastModified.UTC().Format("2006-01-02T15:04:05Z"), entry.Path)
		} else {
			_, err = fmt.Fprintln(l.out, entry.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
