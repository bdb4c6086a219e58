package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeEquity    AccountType = "equity"
)

// Account is what a split points at. Splits hold a reference, never a copy.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	Currency    string // default currency code for amounts typed in this account
	GroupName   string // "" = not grouped
	Inactive    bool
	Description string
}

// IsBalanceSheet reports whether the account is an asset or a liability.
func (a *Account) IsBalanceSheet() bool {
	return a.Type == AccountTypeAsset || a.Type == AccountTypeLiability
}

// IsIncomeStatement reports whether the account is an income or an expense.
func (a *Account) IsIncomeStatement() bool {
	return a.Type == AccountTypeIncome || a.Type == AccountTypeExpense
}
