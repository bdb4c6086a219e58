package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCurrenciesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List known currencies in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"Code", "Name", "Exponent", "Priority"}}
			for _, c := range e.registry.All() {
				data = append(data, []string{c.Code(), c.Name(), strconv.Itoa(c.Exponent()), strconv.Itoa(c.Priority())})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return fmt.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
