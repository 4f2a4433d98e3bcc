// shadermake [path], shadermake build [path]
package cmd

import (
	"fmt"
	"os"

	"github.com/qobs-build/shadermake/internal/builder"
	"github.com/qobs-build/shadermake/internal/msg"
	"github.com/spf13/cobra"
)

var (
	flagGenerator EnumValue = NewEnumValue(builder.GeneratorNative, map[string]string{
		builder.GeneratorNative: "Compile shaders directly (default)",
		builder.GeneratorNinja:  "Generates a build.ninja file",
		builder.GeneratorVS2022: "Generates Visual Studio 2022 project files",
	})
)

func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func doBuild(cmd *cobra.Command, args []string) {
	b, err := builder.NewBuilderInDirectory(targetDir(args))
	if err != nil {
		msg.Fatal("%v", err)
	}
	if err := b.Build(flagGenerator.Value()); err != nil {
		msg.Fatal("%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shadermake [target path]",
	Short: "HLSL shader build steps for C/C++ projects",
	Long: `shadermake compiles the HLSL shaders of a C/C++ project into headers,
one per shader and build configuration, either directly or through
generated ninja or Visual Studio 2022 build files.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build [target path]",
	Short: "Build the package",
	Long:  `Build the package. If no target path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doBuild,
}

func init() {
	addBuildFlags(rootCmd)

	// shadermake build subcommand
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().VarP(&flagGenerator, "gen", "g", "Generator to build with, one of "+flagGenerator.HelpString())
	cmd.RegisterFlagCompletionFunc("gen", flagGenerator.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
