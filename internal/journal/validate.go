package journal

import (
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/model"
)

// Validation check names.
const (
	CheckBalanced = "balanced"
	CheckAccount  = "account"
	CheckPosition = "position"
	CheckSplits   = "splits"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Check         string
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.TransactionID, e.Description)
}

// AccountChecker tests whether an account name exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

// Validate checks every transaction of the list, in sorted order.
func (l *List) Validate(accounts AccountChecker) []ValidationError {
	var errs []ValidationError
	type slot struct {
		day      string
		position int
	}
	positions := make(map[slot]string)

	for _, txn := range l.Sorted() {
		errs = append(errs, ValidateTransaction(txn, accounts)...)

		// Two transactions on one day must not share a position.
		key := slot{day: txn.Date.Format(time.DateOnly), position: txn.Position}
		if other, ok := positions[key]; ok {
			errs = append(errs, ValidationError{
				Check:         CheckPosition,
				TransactionID: txn.ID.String(),
				Description:   fmt.Sprintf("position %d on %s already used by %s", txn.Position, key.day, other),
			})
			continue
		}
		positions[key] = txn.ID.String()
	}
	return errs
}

// ValidateTransaction checks one transaction: it has splits, each currency
// group sums to zero and every assigned account is known.
func ValidateTransaction(txn *model.Transaction, accounts AccountChecker) []ValidationError {
	var errs []ValidationError
	id := txn.ID.String()

	if txn.Len() == 0 {
		errs = append(errs, ValidationError{
			Check:         CheckSplits,
			TransactionID: id,
			Description:   "transaction has no splits",
		})
	}

	var order []string
	sums := make(map[string]amount.Amount)
	for _, s := range txn.Splits() {
		a := s.Amount()
		if a.IsZero() {
			continue
		}
		sum, ok := sums[a.Code()]
		if !ok {
			order = append(order, a.Code())
		}
		next, err := sum.Add(a)
		if err != nil {
			errs = append(errs, ValidationError{Check: CheckBalanced, TransactionID: id, Description: err.Error()})
			continue
		}
		sums[a.Code()] = next
	}
	for _, code := range order {
		if sum := sums[code]; !sum.IsZero() {
			errs = append(errs, ValidationError{
				Check:         CheckBalanced,
				TransactionID: id,
				Description:   fmt.Sprintf("%s splits sum to %s", code, sum),
			})
		}
	}

	if accounts != nil {
		for i, s := range txn.Splits() {
			if a := s.Account(); a != nil && !accounts.Exists(a.Name) {
				errs = append(errs, ValidationError{
					Check:         CheckAccount,
					TransactionID: id,
					Description:   fmt.Sprintf("split %d: unknown account %q", i, a.Name),
				})
			}
		}
	}
	return errs
}
