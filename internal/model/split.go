package model

import (
	"time"

	"github.com/cleared-dev/tally/internal/amount"
)

// Split is one leg of a Transaction. Splits are created and changed only through
// their owning Transaction; a nil account means the split is unassigned.
type Split struct {
	account    *Account
	amount     amount.Amount
	memo       string
	reference  string
	reconciled *time.Time
}

// Account returns the linked account, nil when unassigned.
func (s *Split) Account() *Account { return s.account }

func (s *Split) Amount() amount.Amount { return s.amount }

func (s *Split) Memo() string { return s.memo }

// Reference is the import reference (bank transaction id) of the split.
func (s *Split) Reference() string { return s.reference }

// ReconciliationDate returns when the split was reconciled, nil if it is not.
func (s *Split) ReconciliationDate() *time.Time { return s.reconciled }

// IsUnassigned reports whether the split has no account.
func (s *Split) IsUnassigned() bool { return s.account == nil }

func (s *Split) clone() *Split {
	c := *s
	if s.reconciled != nil {
		d := *s.reconciled
		c.reconciled = &d
	}
	return &c
}
