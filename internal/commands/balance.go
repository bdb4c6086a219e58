package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/journal"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/model"
)

type balanceFlags struct {
	splits       []string
	strong       int
	keepTwo      bool
	perCurrency  bool
	file         string
	accountsPath string
	date         string
	output       string
	match        string
}

func newBalanceCommand(e *env) *cobra.Command {
	flags := &balanceFlags{}

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance a transaction so every currency sums to zero",
		Long: `Balance transactions given with --split or read from a YAML file.

Each --split is ACCOUNT=AMOUNT; leave ACCOUNT empty for an unassigned split.
Amounts without a code use the account's currency, then the configured default.
--strong selects the split index the user just edited; it is never adjusted.`,
		Example: `  tally balance --split Checking=-100 --split "Travel=EUR 90"
  tally balance --file transactions.yaml --output yaml
  tally balance --file transactions.yaml --match groceries`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, e, flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.splits, "split", "s", nil, "split as ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().IntVar(&flags.strong, "strong", -1, "index of the split that must keep its amount")
	cmd.Flags().BoolVar(&flags.keepTwo, "keep-two", false, "with two splits, make the other split mirror the strong one")
	cmd.Flags().BoolVar(&flags.perCurrency, "per-currency", false, "always offset each currency group with unassigned splits")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "YAML transaction file")
	cmd.Flags().StringVar(&flags.accountsPath, "accounts", "", "chart of accounts CSV (default: built-in chart)")
	cmd.Flags().StringVar(&flags.date, "date", "", "date for --split transactions, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "table", "output format: table or yaml")
	cmd.Flags().StringVarP(&flags.match, "match", "m", "", "only balance transactions whose text, account, group or amount matches")

	return cmd
}

func runBalance(cmd *cobra.Command, e *env, flags *balanceFlags) error {
	log := logger.FromContext(cmd.Context())
	if flags.output != "table" && flags.output != "yaml" {
		return fmt.Errorf("unknown output format %q", flags.output)
	}
	if len(flags.splits) == 0 && flags.file == "" {
		return errors.New("nothing to balance: pass --split or --file")
	}

	chart, err := loadChart(e, flags.accountsPath)
	if err != nil {
		return err
	}
	dec := &journal.Decoder{Parser: e.parser, Options: e.cfg.ParseOptions(), Accounts: chart}
	list := journal.NewList()

	if flags.file != "" {
		f, err := os.Open(flags.file)
		if err != nil {
			return fmt.Errorf("opening transactions: %w", err)
		}
		defer f.Close()
		if err := dec.Read(f, list); err != nil {
			return err
		}
	}
	if len(flags.splits) > 0 {
		txn, err := splitsTransaction(dec, flags)
		if err != nil {
			return err
		}
		list.Add(txn, false)
	}

	if flags.match != "" {
		q := matchQuery(e, flags.match)
		for _, txn := range list.All() {
			if !txn.Matches(q) {
				list.Remove(txn)
			}
		}
		log.Debug().Str("match", flags.match).Int("kept", list.Len()).Msg("filtered transactions")
	}

	for _, txn := range list.Sorted() {
		var strong *model.Split
		if flags.strong >= 0 {
			strong, err = txn.SplitAt(flags.strong)
			if err != nil {
				return fmt.Errorf("--strong %d: %w", flags.strong, err)
			}
		}
		before := txn.Len()
		if flags.perCurrency {
			err = txn.BalanceCurrencies(strong)
		} else {
			err = txn.Balance(strong, flags.keepTwo)
		}
		if err != nil {
			return fmt.Errorf("balancing %s: %w", txn.ID, err)
		}
		log.Debug().Str("id", txn.ID.String()).Int("before", before).Int("after", txn.Len()).Msg("balanced")
	}

	out := cmd.OutOrStdout()
	if flags.output == "yaml" {
		if err := journal.Write(out, list.Sorted(), e.cfg.FormatConfig()); err != nil {
			return err
		}
	} else if err := renderTransactions(out, list.Sorted(), e.cfg.FormatConfig()); err != nil {
		return err
	}

	if verrs := list.Validate(chart); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// matchQuery searches every field for text. Text that reads as an amount also
// matches splits of the same absolute value.
func matchQuery(e *env, text string) model.Query {
	lower := strings.ToLower(strings.TrimSpace(text))
	q := model.Query{
		Description: lower,
		Payee:       lower,
		CheckNo:     lower,
		Memo:        lower,
		Accounts:    []string{lower},
		Groups:      []string{lower},
	}
	if a, err := e.parser.Parse(text, e.cfg.ParseOptions()); err == nil && !a.IsZero() {
		q.Amount = &a
	}
	return q
}

func loadChart(e *env, path string) (*accounts.Service, error) {
	if path == "" {
		return accounts.NewService(accounts.DefaultChart(e.cfg.Parse.DefaultCurrency)), nil
	}
	return accounts.Load(path)
}

// splitsTransaction builds the transaction described by --split flags.
func splitsTransaction(dec *journal.Decoder, flags *balanceFlags) (*model.Transaction, error) {
	rec := journal.TransactionRecord{Date: flags.date}
	if rec.Date == "" {
		rec.Date = time.Now().Format(time.DateOnly)
	}
	for _, s := range flags.splits {
		name, text, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("split %q: want ACCOUNT=AMOUNT", s)
		}
		rec.Splits = append(rec.Splits, journal.SplitRecord{
			Account: strings.TrimSpace(name),
			Amount:  text,
		})
	}
	return dec.Transaction(rec)
}

func renderTransactions(w io.Writer, txns []*model.Transaction, cfg amount.FormatConfig) error {
	for _, txn := range txns {
		title := txn.Date.Format(time.DateOnly)
		if txn.Description != "" {
			title += " " + txn.Description
		}
		fmt.Fprintln(w, title)

		data := pterm.TableData{{"#", "Account", "Amount", "Memo"}}
		for i, s := range txn.Splits() {
			name := "(unassigned)"
			if a := s.Account(); a != nil {
				name = a.Name
			}
			data = append(data, []string{
				strconv.Itoa(i),
				name,
				amount.Format(s.Amount(), cfg, amount.FormatOptions{ShowCurrency: true}),
				s.Memo(),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
		fmt.Fprintln(w, table)
	}
	return nil
}
