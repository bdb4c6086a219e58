package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/logger"
)

// env is what every subcommand works with, filled before it runs.
type env struct {
	cfg      *config.Config
	registry *currency.Registry
	parser   *amount.Parser
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var cfgPath string
	var verbose bool
	e := &env{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Parse, format and balance multi-currency amounts",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgPath)
			if err != nil {
				return err
			}
			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			if verbose {
				level = zerolog.DebugLevel
			}
			log := logger.NewConsole(cmd.ErrOrStderr(), level)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))

			e.cfg = cfg
			e.registry = currency.Default()
			e.parser = amount.NewParser(e.registry, amount.WithLogger(log))
			log.Debug().Str("config", cfgPath).Int("currencies", e.registry.Len()).Msg("ready")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to tally.yaml")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log debug output to stderr")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand(e))
	rootCmd.AddCommand(newFormatCommand(e))
	rootCmd.AddCommand(newBalanceCommand(e))
	rootCmd.AddCommand(newCurrenciesCommand(e))

	return rootCmd
}
