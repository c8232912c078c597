package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arcanaland/atelier/internal/config"
	"github.com/arcanaland/atelier/internal/logging"
)

var (
	cfg      *config.Config
	logger   *slog.Logger
	closeLog = func() error { return nil }
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "Art history flashcards in your terminal",
	Long: `Atelier is a flashcard trainer for art history.
Every artwork in the catalog becomes four cards (title, author, century and
style). Mark the ones you know and keep studying the rest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("catalog") {
			c.CatalogPath, _ = cmd.Flags().GetString("catalog")
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel, _ = cmd.Flags().GetString("log-level")
		}

		l, closeFn, err := logging.New(logging.Options{
			Level:  c.LogLevel,
			Format: c.LogFormat,
			File:   c.LogFile,
		})
		if err != nil {
			return err
		}

		cfg, logger, closeLog = c, l, closeFn
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	RootCmd.PersistentFlags().String("catalog", "", "Path to the catalog TOML file (overrides config)")
	RootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
