package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	numFields   = 7
	colID       = 0
	colName     = 1
	colType     = 2
	colCurrency = 3
	colGroup    = 4
	colInactive = 5
	colDesc     = 6
)

var header = []string{"account_id", "account_name", "account_type", "currency", "group", "inactive", "description"}

// ReadAccounts reads a chart-of-accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart-of-accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(acct.ID)
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colCurrency] = acct.Currency
	row[colGroup] = acct.GroupName
	if acct.Inactive {
		row[colInactive] = "true"
	}
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_id %q: %w", record[colID], err)
	}

	if record[colName] == "" {
		return model.Account{}, fmt.Errorf("account %d has no name", id)
	}

	typ := model.AccountType(record[colType])
	switch typ {
	case model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeIncome,
		model.AccountTypeExpense, model.AccountTypeEquity:
	default:
		return model.Account{}, fmt.Errorf("unknown account_type %q", record[colType])
	}

	var inactive bool
	if record[colInactive] != "" {
		inactive, err = strconv.ParseBool(record[colInactive])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing inactive %q: %w", record[colInactive], err)
		}
	}

	return model.Account{
		ID:          id,
		Name:        record[colName],
		Type:        typ,
		Currency:    record[colCurrency],
		GroupName:   record[colGroup],
		Inactive:    inactive,
		Description: record[colDesc],
	}, nil
}
