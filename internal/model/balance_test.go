package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/amount"
)

// groupSums returns the per-currency sum of the transaction's splits.
func groupSums(t *testing.T, txn *Transaction) map[string]int64 {
	t.Helper()
	sums := make(map[string]int64)
	for _, s := range txn.Splits() {
		if s.Amount().IsZero() {
			continue
		}
		sums[s.Amount().Code()] += s.Amount().Scaled()
	}
	return sums
}

func snapshot(txn *Transaction) []string {
	var out []string
	for _, s := range txn.Splits() {
		name := "-"
		if s.Account() != nil {
			name = s.Account().Name
		}
		out = append(out, name+" "+s.Amount().String())
	}
	return out
}

func TestBalanceCurrencies_SingleSplit(t *testing.T) {
	checking := &Account{Name: "Checking"}
	txn := txnWith(t, []amount.Amount{amt(t, 10000, "USD")}, []*Account{checking})

	require.NoError(t, txn.BalanceCurrencies(nil))
	require.Equal(t, 2, txn.Len())

	added := txn.Splits()[1]
	assert.True(t, added.IsUnassigned())
	assert.True(t, amt(t, -10000, "USD").Equal(added.Amount()))
	assert.Equal(t, map[string]int64{"USD": 0}, groupSums(t, txn))
}

func TestBalanceCurrencies_SingleUnassignedSplit(t *testing.T) {
	txn := txnWith(t, []amount.Amount{amt(t, 10000, "USD")}, nil)

	require.NoError(t, txn.BalanceCurrencies(nil))
	require.Equal(t, 2, txn.Len(), "the only split of a group is never absorbed into itself")
	assert.Equal(t, int64(-10000), txn.Splits()[1].Amount().Scaled())
}

func TestBalanceCurrencies_Empty(t *testing.T) {
	txn := NewTransaction(date(2024, 1, 1))
	require.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, 0, txn.Len())

	txn.AddSplit()
	require.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, 1, txn.Len(), "blank splits are balanced")
}

func TestBalanceCurrencies_BalancedGroupsUntouched(t *testing.T) {
	a, b := &Account{Name: "A"}, &Account{Name: "B"}
	txn := txnWith(t,
		[]amount.Amount{amt(t, 500, "USD"), amt(t, -500, "USD"), amt(t, 700, "EUR"), amt(t, -700, "EUR")},
		[]*Account{a, b, a, b})
	before := snapshot(txn)
	mtime := txn.MTime

	require.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, before, snapshot(txn))
	assert.Equal(t, mtime, txn.MTime)
}

func TestBalanceCurrencies_MultiCurrency(t *testing.T) {
	bank, broker := &Account{Name: "Bank"}, &Account{Name: "Broker"}
	txn := txnWith(t, []amount.Amount{amt(t, 10000, "USD"), amt(t, -9000, "EUR")}, []*Account{bank, broker})

	require.NoError(t, txn.BalanceCurrencies(nil))
	require.Equal(t, 4, txn.Len())
	assert.Equal(t, map[string]int64{"USD": 0, "EUR": 0}, groupSums(t, txn))

	usdFix, eurFix := txn.Splits()[2], txn.Splits()[3]
	assert.True(t, usdFix.IsUnassigned())
	assert.True(t, eurFix.IsUnassigned())
	assert.True(t, amt(t, -10000, "USD").Equal(usdFix.Amount()))
	assert.True(t, amt(t, 9000, "EUR").Equal(eurFix.Amount()))
}

func TestBalanceCurrencies_Idempotent(t *testing.T) {
	bank, broker := &Account{Name: "Bank"}, &Account{Name: "Broker"}
	txn := txnWith(t, []amount.Amount{amt(t, 10000, "USD"), amt(t, -9000, "EUR"), amt(t, 42, "CAD")}, []*Account{bank, broker, nil})
	strong := txn.Splits()[0]

	require.NoError(t, txn.BalanceCurrencies(strong))
	first := snapshot(txn)
	mtime := txn.MTime

	require.NoError(t, txn.BalanceCurrencies(strong))
	assert.Equal(t, first, snapshot(txn))
	assert.Equal(t, mtime, txn.MTime)
}

func TestBalanceCurrencies_RepeatedEditsAdjustInPlace(t *testing.T) {
	bank, broker := &Account{Name: "Bank"}, &Account{Name: "Broker"}
	txn := txnWith(t, []amount.Amount{amt(t, 10000, "USD"), amt(t, -9000, "EUR")}, []*Account{bank, broker})
	strong := txn.Splits()[0]
	require.NoError(t, txn.BalanceCurrencies(strong))
	require.Equal(t, 4, txn.Len())
	usdFix := txn.Splits()[2]

	for _, v := range []int64{12000, 15000, 500} {
		require.NoError(t, txn.SetSplitAmount(strong, amt(t, v, "USD")))
		require.NoError(t, txn.BalanceCurrencies(strong))
		require.Equal(t, 4, txn.Len(), "no extra balancing legs after editing to %d", v)
		assert.Same(t, usdFix, txn.Splits()[2])
		assert.Equal(t, -v, usdFix.Amount().Scaled())
		assert.Equal(t, map[string]int64{"USD": 0, "EUR": 0}, groupSums(t, txn))
	}
}

func TestBalanceCurrencies_StrongUnassignedIsNotAbsorber(t *testing.T) {
	bank := &Account{Name: "Bank"}
	txn := txnWith(t, []amount.Amount{amt(t, 100, "USD"), amt(t, -100, "USD"), amt(t, 50, "EUR")}, []*Account{bank, nil, bank})
	strong := txn.Splits()[1]

	require.NoError(t, txn.SetSplitAmount(strong, amt(t, -80, "USD")))
	require.NoError(t, txn.BalanceCurrencies(strong))

	assert.Equal(t, int64(-80), strong.Amount().Scaled(), "strong split keeps the user's value")
	assert.Equal(t, map[string]int64{"USD": 0, "EUR": 0}, groupSums(t, txn))
	require.Equal(t, 5, txn.Len())
}

func TestBalanceCurrencies_AbsorberReachingZeroIsRemoved(t *testing.T) {
	a, b := &Account{Name: "A"}, &Account{Name: "B"}
	txn := txnWith(t, []amount.Amount{amt(t, 100, "USD"), amt(t, -100, "USD"), amt(t, 30, "USD")}, []*Account{a, b, nil})

	require.NoError(t, txn.BalanceCurrencies(txn.Splits()[0]))
	assert.Equal(t, 2, txn.Len())
	assert.Equal(t, map[string]int64{"USD": 0}, groupSums(t, txn))
}

func TestBalanceCurrencies_OnlyStrongGroupAdjustsInPlace(t *testing.T) {
	a, b := &Account{Name: "A"}, &Account{Name: "B"}
	build := func() *Transaction {
		return txnWith(t,
			[]amount.Amount{amt(t, 130, "USD"), amt(t, -100, "USD"), amt(t, 70, "EUR"), amt(t, -50, "EUR")},
			[]*Account{a, nil, b, nil})
	}

	t.Run("strong in another currency", func(t *testing.T) {
		txn := build()
		usdLoose, strong, eurLoose := txn.Splits()[1], txn.Splits()[2], txn.Splits()[3]

		require.NoError(t, txn.BalanceCurrencies(strong))
		assert.Equal(t, int64(-100), usdLoose.Amount().Scaled(), "USD group does not hold strong")
		assert.Equal(t, int64(-70), eurLoose.Amount().Scaled())
		require.Equal(t, 5, txn.Len())
		added := txn.Splits()[4]
		assert.True(t, added.IsUnassigned())
		assert.True(t, amt(t, -30, "USD").Equal(added.Amount()))
		assert.Equal(t, map[string]int64{"USD": 0, "EUR": 0}, groupSums(t, txn))
	})

	t.Run("no strong split", func(t *testing.T) {
		txn := build()
		require.NoError(t, txn.BalanceCurrencies(nil))
		assert.Equal(t, []string{
			"A USD 1.30", "- USD -1.00", "B EUR 0.70", "- EUR -0.50", "- USD -0.30", "- EUR -0.20",
		}, snapshot(txn))
	})
}

func TestBalanceCurrencies_UnassignedForeignSplitGetsOffset(t *testing.T) {
	a := &Account{Name: "A"}
	txn := txnWith(t, []amount.Amount{amt(t, 42, "USD"), amt(t, -22, "CAD")}, []*Account{a, nil})

	require.NoError(t, txn.BalanceCurrencies(nil))
	assert.Equal(t, []string{"A USD 0.42", "- CAD -0.22", "- USD -0.42", "- CAD 0.22"}, snapshot(txn))
}

func TestBalanceCurrencies_StrongNotMember(t *testing.T) {
	txn := txnWith(t, []amount.Amount{amt(t, 100, "USD")}, nil)
	stranger := NewTransaction(date(2024, 1, 1)).AddSplit()

	assert.ErrorIs(t, txn.BalanceCurrencies(stranger), ErrNotMember)
	assert.Equal(t, 1, txn.Len())
}

func TestBalance_SingleCurrency(t *testing.T) {
	a, b := &Account{Name: "A"}, &Account{Name: "B"}

	t.Run("one split", func(t *testing.T) {
		txn := txnWith(t, []amount.Amount{amt(t, 4200, "USD")}, []*Account{a})
		require.NoError(t, txn.Balance(nil, false))
		require.Equal(t, 2, txn.Len())
		assert.Equal(t, int64(-4200), txn.Splits()[1].Amount().Scaled())
	})

	t.Run("keep two splits mirrors weak", func(t *testing.T) {
		txn := txnWith(t, []amount.Amount{amt(t, 4200, "USD"), amt(t, -4200, "USD")}, []*Account{a, b})
		strong := txn.Splits()[0]
		require.NoError(t, txn.SetSplitAmount(strong, amt(t, 5000, "USD")))
		require.NoError(t, txn.Balance(strong, true))
		require.Equal(t, 2, txn.Len())
		assert.Equal(t, int64(-5000), txn.Splits()[1].Amount().Scaled())
	})

	t.Run("imbalance goes to new unassigned split", func(t *testing.T) {
		txn := txnWith(t, []amount.Amount{amt(t, 4200, "USD"), amt(t, -4200, "USD")}, []*Account{a, b})
		strong := txn.Splits()[0]
		require.NoError(t, txn.SetSplitAmount(strong, amt(t, 5000, "USD")))
		require.NoError(t, txn.Balance(strong, false))
		require.Equal(t, 3, txn.Len())
		assert.True(t, txn.Splits()[2].IsUnassigned())
		assert.Equal(t, int64(-800), txn.Splits()[2].Amount().Scaled())
	})

	t.Run("imbalance goes to existing unassigned split", func(t *testing.T) {
		txn := txnWith(t, []amount.Amount{amt(t, 100, "USD"), amt(t, -60, "USD"), amt(t, -40, "USD")}, []*Account{a, b, nil})
		strong := txn.Splits()[0]
		require.NoError(t, txn.SetSplitAmount(strong, amt(t, 150, "USD")))
		require.NoError(t, txn.Balance(strong, false))
		require.Equal(t, 3, txn.Len())
		assert.Equal(t, int64(-90), txn.Splits()[2].Amount().Scaled())
	})

	t.Run("weak blank splits are dropped", func(t *testing.T) {
		txn := txnWith(t, []amount.Amount{amt(t, 100, "USD"), amt(t, -100, "USD")}, []*Account{a, b})
		txn.AddSplit()
		require.NoError(t, txn.Balance(nil, false))
		assert.Equal(t, 2, txn.Len())
	})

	t.Run("multi currency delegates", func(t *testing.T) {
		txn := txnWith(t, []amount.Amount{amt(t, 100, "USD"), amt(t, -90, "EUR")}, []*Account{a, b})
		require.NoError(t, txn.Balance(nil, false))
		assert.Equal(t, map[string]int64{"USD": 0, "EUR": 0}, groupSums(t, txn))
	})
}
