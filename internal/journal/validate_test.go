package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestValidate_Clean(t *testing.T) {
	chart := testChart()
	l := NewList()
	l.Add(transfer(t, date(2024, 1, 1), account(t, chart, "Checking"), account(t, chart, "Rent"), usd(t, 150000)), false)
	l.Add(transfer(t, date(2024, 1, 1), account(t, chart, "Checking"), account(t, chart, "Groceries"), usd(t, 4200)), false)

	assert.Empty(t, l.Validate(chart))
}

func TestValidate_Unbalanced(t *testing.T) {
	chart := testChart()
	txn := transfer(t, date(2024, 1, 1), account(t, chart, "Checking"), account(t, chart, "Travel"), usd(t, 1000))
	s := txn.AddSplit()
	require.NoError(t, txn.SetSplitAmount(s, eur(t, 900)))

	errs := ValidateTransaction(txn, chart)
	require.Len(t, errs, 1)
	assert.Equal(t, CheckBalanced, errs[0].Check)
	assert.Equal(t, txn.ID.String(), errs[0].TransactionID)
	assert.Contains(t, errs[0].Description, "EUR")

	require.NoError(t, txn.BalanceCurrencies(nil))
	assert.Empty(t, ValidateTransaction(txn, chart))
}

func TestValidate_UnknownAccount(t *testing.T) {
	chart := testChart()
	ghost := &model.Account{Name: "Ghost"}
	txn := transfer(t, date(2024, 1, 1), account(t, chart, "Checking"), ghost, usd(t, 1))

	errs := ValidateTransaction(txn, chart)
	require.Len(t, errs, 1)
	assert.Equal(t, CheckAccount, errs[0].Check)
	assert.Contains(t, errs[0].Error(), `unknown account "Ghost"`)

	assert.Empty(t, ValidateTransaction(txn, nil), "no chart skips account checks")
}

func TestValidate_Empty(t *testing.T) {
	errs := ValidateTransaction(model.NewTransaction(date(2024, 1, 1)), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, CheckSplits, errs[0].Check)
}

func TestValidate_DuplicatePosition(t *testing.T) {
	chart := testChart()
	l := NewList()
	a := transfer(t, date(2024, 1, 1), account(t, chart, "Checking"), account(t, chart, "Rent"), usd(t, 1))
	b := transfer(t, date(2024, 1, 1), account(t, chart, "Checking"), account(t, chart, "Rent"), usd(t, 2))
	c := transfer(t, date(2024, 1, 2), account(t, chart, "Checking"), account(t, chart, "Rent"), usd(t, 3))
	l.Add(a, true)
	l.Add(b, true)
	l.Add(c, true)

	errs := l.Validate(chart)
	require.Len(t, errs, 1)
	assert.Equal(t, CheckPosition, errs[0].Check)
	assert.Equal(t, b.ID.String(), errs[0].TransactionID)
}
