package accounts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart("USD")
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestLookups(t *testing.T) {
	svc := NewService(DefaultChart("USD"))

	acct, ok := svc.Get(1010)
	require.True(t, ok)
	assert.Equal(t, "Checking", acct.Name)

	byName, ok := svc.ByName("checking")
	require.True(t, ok)
	assert.Same(t, acct, byName, "lookups share one account value")

	_, ok = svc.Get(9999)
	assert.False(t, ok)
	assert.True(t, svc.Exists("GROCERIES"))
	assert.False(t, svc.Exists("Yacht"))
}

func TestDuplicateNames(t *testing.T) {
	svc := NewService([]model.Account{
		{ID: 1, Name: "Cash", Type: model.AccountTypeAsset},
		{ID: 2, Name: "cash", Type: model.AccountTypeExpense},
	})
	require.Len(t, svc.All(), 1)
	acct, _ := svc.ByName("CASH")
	assert.Equal(t, 1, acct.ID)
	_, ok := svc.Get(2)
	assert.False(t, ok)
}

func TestByType(t *testing.T) {
	svc := NewService(DefaultChart("USD"))

	assets := svc.ByType(model.AccountTypeAsset)
	assert.Len(t, assets, 3)
	for _, a := range assets {
		assert.Equal(t, model.AccountTypeAsset, a.Type)
	}
	assert.Len(t, svc.ByType(model.AccountTypeExpense), 4)
}

func TestSaveRoundTrip(t *testing.T) {
	chart := DefaultChart("EUR")
	svc := NewService(chart)

	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, svc.Save(path))

	svc2, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(chart))

	for _, orig := range chart {
		got, ok := svc2.Get(orig.ID)
		require.True(t, ok, "account %d should exist", orig.ID)
		assert.Equal(t, orig, *got)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
