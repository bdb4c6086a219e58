package accounts

import "github.com/cleared-dev/tally/internal/model"

// DefaultChart returns a starter personal-finance chart of accounts whose
// balance-sheet accounts hold amounts in currencyCode.
func DefaultChart(currencyCode string) []model.Account {
	return []model.Account{
		{ID: 1010, Name: "Checking", Type: model.AccountTypeAsset, Currency: currencyCode, GroupName: "Bank", Description: "Everyday checking account"},
		{ID: 1020, Name: "Savings", Type: model.AccountTypeAsset, Currency: currencyCode, GroupName: "Bank"},
		{ID: 1030, Name: "Cash", Type: model.AccountTypeAsset, Currency: currencyCode},
		{ID: 2010, Name: "Credit Card", Type: model.AccountTypeLiability, Currency: currencyCode},
		{ID: 3010, Name: "Opening Balances", Type: model.AccountTypeEquity, Currency: currencyCode},
		{ID: 4010, Name: "Salary", Type: model.AccountTypeIncome, Currency: currencyCode},
		{ID: 4020, Name: "Interest", Type: model.AccountTypeIncome, Currency: currencyCode},
		{ID: 5010, Name: "Groceries", Type: model.AccountTypeExpense, Currency: currencyCode, GroupName: "Living"},
		{ID: 5020, Name: "Rent", Type: model.AccountTypeExpense, Currency: currencyCode, GroupName: "Living"},
		{ID: 5030, Name: "Utilities", Type: model.AccountTypeExpense, Currency: currencyCode, GroupName: "Living"},
		{ID: 5040, Name: "Travel", Type: model.AccountTypeExpense, Description: "Spending in any currency"},
	}
}
