// Command mvbench is the CLI front end for the workbench core: it
// loads a declarative scenario file, runs readiness, builds a solver
// input, and executes a Run end to end, printing the resulting
// ResultSet. It plays the role lvlath's examples/*.go programs play
// for its algorithms, wired through cobra as a real command tree.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	verbose      bool
	logger       zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mvbench",
	Short: "Deterministic MV network engineering workbench core",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "path to a scenario YAML file (required)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose structured logging")
	_ = rootCmd.MarkPersistentFlagRequired("scenario")

	rootCmd.AddCommand(readinessCmd)
	rootCmd.AddCommand(runPFCmd)
	rootCmd.AddCommand(runSCCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func main() {
	logger = newLogger()
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("mvbench failed")
		os.Exit(1)
	}
}
