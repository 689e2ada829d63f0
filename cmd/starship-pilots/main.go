package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/starship-pilots/pkg/logging"
)

var (
	logLevel  = getEnv("LOG_LEVEL", "info")
	logPretty = false
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "starship-pilots",
	Short: "Find starship and pilot combinations for a number of passengers",
	Long: `starship-pilots walks the SWAPI starship catalogue, keeps the ships that
can carry the requested number of passengers, and resolves their pilots.
Every SWAPI request is memoized for the life of the process.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Config{
			Level:  logging.LogLevel(logLevel),
			Pretty: logPretty,
			Output: os.Stderr,
		})
		log.Debug().Msg("debug logging enabled")
	},
}

func main() {
	rootCmd.AddCommand(
		NewListCommand(),
		NewServeCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel,
		"Log level (debug,info,warn,error), defaults to $LOG_LEVEL or info")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", logPretty,
		"Human-readable console logs instead of JSON")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("could not execute root command")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
