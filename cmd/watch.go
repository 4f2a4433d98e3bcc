// shadermake watch [path]
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/qobs-build/shadermake/internal/builder"
	"github.com/qobs-build/shadermake/internal/msg"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [target path]",
	Short: "Build the package and rebuild when a shader changes",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, err := builder.NewBuilderInDirectory(targetDir(args))
		if err != nil {
			msg.Fatal("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := b.Watch(ctx); err != nil {
			msg.Fatal("%v", err)
		}
	},
}

func init() {
	// shadermake watch subcommand
	rootCmd.AddCommand(watchCmd)
}
