package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/currency"
	"github.com/cleared-dev/tally/internal/model"
)

var testCurrencies = currency.Default()

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func usd(t *testing.T, scaled int64) amount.Amount {
	t.Helper()
	c, err := testCurrencies.Get("USD")
	require.NoError(t, err)
	return amount.New(scaled, c)
}

func eur(t *testing.T, scaled int64) amount.Amount {
	t.Helper()
	c, err := testCurrencies.Get("EUR")
	require.NoError(t, err)
	return amount.New(scaled, c)
}

func testChart() *accounts.Service {
	return accounts.NewService(accounts.DefaultChart("USD"))
}

func account(t *testing.T, chart *accounts.Service, name string) *model.Account {
	t.Helper()
	a, ok := chart.ByName(name)
	require.True(t, ok, "account %s", name)
	return a
}

// transfer builds a balanced two-split transaction moving value from one account to another.
func transfer(t *testing.T, on time.Time, from, to *model.Account, value amount.Amount) *model.Transaction {
	t.Helper()
	txn := model.NewTransaction(on)
	out := txn.AddSplit()
	require.NoError(t, txn.SetSplitAccount(out, from))
	require.NoError(t, txn.SetSplitAmount(out, value.Neg()))
	in := txn.AddSplit()
	require.NoError(t, txn.SetSplitAccount(in, to))
	require.NoError(t, txn.SetSplitAmount(in, value))
	return txn
}
