package journal

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/model"
)

// List holds the transactions of a document and keeps their ordering
// positions consistent within each date.
type List struct {
	txns []*model.Transaction
	byID map[uuid.UUID]*model.Transaction
}

// NewList creates an empty List.
func NewList() *List {
	return &List{byID: make(map[uuid.UUID]*model.Transaction)}
}

// Len returns the number of transactions.
func (l *List) Len() int { return len(l.txns) }

// Add appends txn. Unless keepPosition is set, txn is placed after every
// transaction already at its date. Adding a transaction twice is a no-op.
func (l *List) Add(txn *model.Transaction, keepPosition bool) {
	if _, ok := l.byID[txn.ID]; ok {
		return
	}
	if !keepPosition {
		txn.Position = l.nextPosition(txn.Date)
	}
	l.txns = append(l.txns, txn)
	l.byID[txn.ID] = txn
}

// Remove drops txn from the list. It reports whether txn was present.
func (l *List) Remove(txn *model.Transaction) bool {
	i := slices.Index(l.txns, txn)
	if i < 0 {
		return false
	}
	l.txns = slices.Delete(l.txns, i, i+1)
	delete(l.byID, txn.ID)
	return true
}

// Clear removes every transaction.
func (l *List) Clear() {
	l.txns = nil
	clear(l.byID)
}

// Get looks a transaction up by ID.
func (l *List) Get(id uuid.UUID) (*model.Transaction, bool) {
	txn, ok := l.byID[id]
	return txn, ok
}

// All returns the transactions in insertion order.
func (l *List) All() []*model.Transaction {
	return slices.Clone(l.txns)
}

// Sorted returns the transactions ordered by date, then position.
func (l *List) Sorted() []*model.Transaction {
	out := slices.Clone(l.txns)
	slices.SortStableFunc(out, model.Compare)
	return out
}

// AtDate returns the transactions on date, ordered by position.
func (l *List) AtDate(date time.Time) []*model.Transaction {
	var out []*model.Transaction
	for _, txn := range l.txns {
		if sameDay(txn.Date, date) {
			out = append(out, txn)
		}
	}
	slices.SortStableFunc(out, model.Compare)
	return out
}

// MoveBefore moves from just before to within their shared date. A nil to, or
// one on a different date, moves from after every other transaction of its date.
func (l *List) MoveBefore(from, to *model.Transaction) {
	if _, ok := l.byID[from.ID]; !ok {
		return
	}
	if to != nil && !sameDay(to.Date, from.Date) {
		to = nil
	}
	others := slices.DeleteFunc(l.AtDate(from.Date), func(t *model.Transaction) bool { return t == from })
	if len(others) == 0 {
		return
	}

	var target int
	if to == nil {
		target = slices.MaxFunc(others, func(a, b *model.Transaction) int {
			return cmp.Compare(a.Position, b.Position)
		}).Position + 1
	} else {
		target = to.Position
	}
	from.Position = target
	for _, t := range others {
		if t.Position >= target {
			t.Position++
		}
	}
}

// MoveLast moves txn after every other transaction of its date.
func (l *List) MoveLast(txn *model.Transaction) {
	l.MoveBefore(txn, nil)
}

// ReassignAccount points every split on from to to across all transactions.
// Transactions left without any account are removed.
func (l *List) ReassignAccount(from, to *model.Account) {
	for _, txn := range slices.Clone(l.txns) {
		txn.ReassignAccount(from, to)
		if len(txn.AffectedAccounts()) == 0 {
			l.Remove(txn)
		}
	}
}

// Payees returns the distinct non-empty payees, most recently modified first.
func (l *List) Payees() []string {
	seen := make(map[string]time.Time)
	for _, txn := range l.txns {
		if txn.Payee != "" {
			bump(seen, txn.Payee, txn.MTime)
		}
	}
	return byRecency(seen)
}

// AccountNames returns the distinct names of active accounts used by the
// transactions, most recently modified first.
func (l *List) AccountNames() []string {
	seen := make(map[string]time.Time)
	for _, txn := range l.txns {
		for _, a := range txn.AffectedAccounts() {
			if !a.Inactive {
				bump(seen, a.Name, txn.MTime)
			}
		}
	}
	return byRecency(seen)
}

func (l *List) nextPosition(date time.Time) int {
	pos := 0
	for _, txn := range l.txns {
		if sameDay(txn.Date, date) && txn.Position >= pos {
			pos = txn.Position + 1
		}
	}
	return pos
}

func bump(seen map[string]time.Time, key string, mtime time.Time) {
	if prev, ok := seen[key]; !ok || mtime.After(prev) {
		seen[key] = mtime
	}
}

// byRecency sorts keys by descending time, then by name for equal times.
func byRecency(seen map[string]time.Time) []string {
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := seen[b].Compare(seen[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
