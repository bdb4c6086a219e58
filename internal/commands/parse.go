package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/logger"
)

func newParseCommand(e *env) *cobra.Command {
	var currencyCode string
	var autoDecimal, strict, noExpression, raw bool

	cmd := &cobra.Command{
		Use:   "parse TEXT...",
		Short: "Parse an amount such as \"1,454.67 USD\", \"(12.50)\" or \"10/4 EUR\"",
		Long: `Parse free-form amount text and print it back in canonical form.

Words are joined with spaces, so "tally parse 12.50 EUR" works unquoted. Use
"--" before text that starts with a minus sign.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := e.cfg.ParseOptions()
			if cmd.Flags().Changed("currency") {
				opts.DefaultCurrency = strings.ToUpper(currencyCode)
			}
			if cmd.Flags().Changed("auto-decimal") {
				opts.AutoDecimalPlace = autoDecimal
			}
			if cmd.Flags().Changed("strict") {
				opts.StrictCurrency = strict
			}
			opts.NoExpression = noExpression

			text := strings.Join(args, " ")
			a, err := e.parser.Parse(text, opts)
			if err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())
			log.Debug().Str("input", text).Int64("scaled", a.Scaled()).Str("currency", a.Code()).Msg("parsed")

			if raw {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", a.Scaled(), a.Code())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), amount.Format(a, e.cfg.FormatConfig(), amount.FormatOptions{ShowCurrency: true}))
			return nil
		},
	}

	cmd.Flags().StringVar(&currencyCode, "currency", "", "currency for text without a code (default from config)")
	cmd.Flags().BoolVar(&autoDecimal, "auto-decimal", false, "treat plain digits as minor units (\"1234\" is 12.34)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown currency codes")
	cmd.Flags().BoolVar(&noExpression, "no-expression", false, "reject arithmetic operators")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the scaled integer and currency code")

	return cmd
}

func newFormatCommand(e *env) *cobra.Command {
	var showCurrency, blankZero, foreign bool

	cmd := &cobra.Command{
		Use:   "format SCALED CODE",
		Short: "Format a scaled integer amount, e.g. \"format -- -123456 USD\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scaled, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing scaled value %q: %w", args[0], err)
			}
			cur, err := e.registry.Get(args[1])
			if err != nil {
				return err
			}

			opts := amount.FormatOptions{ShowCurrency: showCurrency, BlankZero: blankZero}
			if foreign {
				opts.DefaultCurrency = e.cfg.Parse.DefaultCurrency
			}
			fmt.Fprintln(cmd.OutOrStdout(), amount.Format(amount.New(scaled, cur), e.cfg.FormatConfig(), opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCurrency, "show-currency", false, "prefix the currency code")
	cmd.Flags().BoolVar(&blankZero, "blank-zero", false, "print zero as an empty line")
	cmd.Flags().BoolVar(&foreign, "foreign", false, "prefix the code only when it differs from the default currency")

	return cmd
}
