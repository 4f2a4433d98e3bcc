// shadermake steps [path]
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/qobs-build/shadermake/internal/builder"
	"github.com/qobs-build/shadermake/internal/msg"
	"github.com/qobs-build/shadermake/internal/shader"
	"github.com/spf13/cobra"
)

var flagCommandLines bool

// printSteps lists steps grouped by configuration, in resolution order
func printSteps(w io.Writer, basedir string, steps []shader.CompileStep, commandLines bool) {
	lastConf := ""
	for _, step := range steps {
		if step.Configuration != lastConf {
			fmt.Fprintf(w, "%s\n", color.HiCyanString(step.Configuration))
			lastConf = step.Configuration
		}
		input := step.Input
		if rel, err := filepath.Rel(basedir, input); err == nil {
			input = filepath.ToSlash(rel)
		}
		fmt.Fprintf(w, "  %-8s %s -> %s (%s)\n", step.Profile, input, step.Output, step.Symbol)
		if commandLines {
			fmt.Fprintf(w, "           %s\n", step.CommandLine)
		}
	}
}

var stepsCmd = &cobra.Command{
	Use:   "steps [target path]",
	Short: "Print the shader build steps of the package",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := filepath.Abs(targetDir(args))
		if err != nil {
			msg.Fatal("%v", err)
		}
		b, err := builder.NewBuilderInDirectory(dir)
		if err != nil {
			msg.Fatal("%v", err)
		}
		res, err := b.Resolve()
		if err != nil {
			msg.Fatal("%v", err)
		}
		if len(res.Steps) == 0 {
			msg.Warn("%s has no shader files", res.Project.Name)
			return
		}
		printSteps(os.Stdout, dir, res.Steps, flagCommandLines)
	},
}

func init() {
	// shadermake steps subcommand
	rootCmd.AddCommand(stepsCmd)
	stepsCmd.Flags().BoolVarP(&flagCommandLines, "commands", "c", false, "Also print the compiler command lines")
}
