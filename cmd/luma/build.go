package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"luma/build"
	"luma/report"
)

var (
	optLevel    int
	saveTemps   bool
	outputName  string
	docsMode    bool
	debugBuild  bool
	verbose     bool
	projectFile string
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Build Luma module files into a native executable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(args)
		if err != nil {
			return err
		}

		logLevel := report.LogLevelWarn
		if verbose {
			logLevel = report.LogLevelVerbose
		}
		report.InitReporter(logLevel)

		if status := build.NewCompiler(cfg).Compile(); status != 0 {
			os.Exit(status)
		}

		return nil
	},
}

// resolveConfig merges the project manifest (if given) with command-line
// flags.  A flag overrides the manifest only when set to a non-default value:
// -O 0, an empty --name, and an unset --save leave the manifest's values.
func resolveConfig(args []string) (build.BuildConfig, error) {
	cfg := build.BuildConfig{}

	if projectFile != "" {
		loaded, err := build.LoadProjectConfig(projectFile)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Files = args
	}

	if len(cfg.Files) == 0 {
		return cfg, fmt.Errorf("no module files given")
	}

	if optLevel < 0 || optLevel > 3 {
		return cfg, fmt.Errorf("optimization level must be between 0 and 3")
	}

	if optLevel != 0 {
		cfg.OptLevel = optLevel
	}

	if outputName != "" {
		cfg.OutputName = outputName
	}

	cfg.SaveTemps = cfg.SaveTemps || saveTemps
	cfg.Docs = docsMode
	cfg.Debug = debugBuild
	cfg.Verbose = verbose

	return cfg, nil
}

func init() {
	buildCmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "optimization level (0-3)")
	buildCmd.Flags().BoolVar(&saveTemps, "save", false, "keep per-module intermediates (.ll, .s, .meta)")
	buildCmd.Flags().StringVarP(&outputName, "name", "o", "", "executable name")
	buildCmd.Flags().BoolVar(&docsMode, "docs", false, "generate documentation instead of building")
	buildCmd.Flags().BoolVar(&debugBuild, "debug", false, "verify modules before emission")
	buildCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "display per-phase progress")
	buildCmd.Flags().StringVarP(&projectFile, "project", "p", "", "path to a luma.toml project manifest")

	rootCmd.AddCommand(buildCmd)
}
