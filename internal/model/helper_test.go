package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/currency"
)

var testCurrencies = currency.Default()

func amt(t *testing.T, scaled int64, code string) amount.Amount {
	t.Helper()
	c, ok := testCurrencies.Lookup(code)
	require.True(t, ok, "currency %s", code)
	return amount.New(scaled, c)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// txnWith builds a transaction with one split per amount; accounts[i] may be nil.
func txnWith(t *testing.T, amounts []amount.Amount, accounts []*Account) *Transaction {
	t.Helper()
	txn := NewTransaction(date(2024, 3, 1))
	for i, a := range amounts {
		s := txn.AddSplit()
		require.NoError(t, txn.SetSplitAmount(s, a))
		if i < len(accounts) && accounts[i] != nil {
			require.NoError(t, txn.SetSplitAccount(s, accounts[i]))
		}
	}
	return txn
}

// requireContiguous checks every index in [0, Len) resolves to a distinct split.
func requireContiguous(t *testing.T, txn *Transaction) {
	t.Helper()
	seen := make(map[*Split]bool)
	for i := 0; i < txn.Len(); i++ {
		s, err := txn.SplitAt(i)
		require.NoError(t, err)
		require.NotNil(t, s)
		require.False(t, seen[s], "split at %d repeated", i)
		require.Equal(t, i, txn.Index(s))
		seen[s] = true
	}
	require.Len(t, txn.Splits(), txn.Len())
}
