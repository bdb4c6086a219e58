package model

import (
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/amount"
)

// Query holds search criteria. Empty fields are ignored; string fields are
// lower-case. A transaction matches when any criterion matches.
type Query struct {
	Description string
	Payee       string
	CheckNo     string // exact match
	Memo        string
	Amount      *amount.Amount // compared against absolute split values, ignoring currency
	Accounts    []string       // account names
	Groups      []string       // account group names
}

// Matches reports whether any criterion of q matches t.
func (t *Transaction) Matches(q Query) bool {
	if q.Description != "" && strings.Contains(strings.ToLower(t.Description), q.Description) {
		return true
	}
	if q.Payee != "" && strings.Contains(strings.ToLower(t.Payee), q.Payee) {
		return true
	}
	if q.CheckNo != "" && strings.ToLower(t.CheckNo) == q.CheckNo {
		return true
	}
	for _, s := range t.splits {
		if q.Memo != "" && strings.Contains(strings.ToLower(s.memo), q.Memo) {
			return true
		}
		if q.Amount != nil && s.amount.Abs().Decimal().Equal(q.Amount.Abs().Decimal()) {
			return true
		}
		if s.account == nil {
			continue
		}
		if slices.Contains(q.Accounts, strings.ToLower(s.account.Name)) {
			return true
		}
		if s.account.GroupName != "" && slices.Contains(q.Groups, strings.ToLower(s.account.GroupName)) {
			return true
		}
	}
	return false
}

// SplittedSplits separates splits into negative ("froms") and positive ("tos")
// ones. Zero splits go to froms, except one of them moves to tos when tos would
// otherwise be empty.
func SplittedSplits(splits []*Split) (froms, tos []*Split) {
	var zeros []*Split
	for _, s := range splits {
		switch s.amount.Sign() {
		case -1:
			froms = append(froms, s)
		case 1:
			tos = append(tos, s)
		default:
			zeros = append(zeros, s)
		}
	}
	if len(tos) == 0 && len(zeros) > 0 {
		tos = append(tos, zeros[len(zeros)-1])
		zeros = zeros[:len(zeros)-1]
	}
	froms = append(froms, zeros...)
	return froms, tos
}
