package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/amount"
)

var (
	// ErrNotMember is returned when a split does not belong to the transaction.
	ErrNotMember = errors.New("split does not belong to transaction")
	// ErrIndexOutOfRange is returned for split positions outside [0, Len).
	ErrIndexOutOfRange = errors.New("split index out of range")
	// ErrNegativeCount is returned when resizing to fewer than zero splits.
	ErrNegativeCount = errors.New("negative split count")
	// ErrMultiCurrency is returned by operations defined for one currency only.
	ErrMultiCurrency = errors.New("transaction uses more than one currency")
)

// now is swapped in tests.
var now = time.Now

// TransactionType distinguishes real transactions from generated ones.
type TransactionType int

const (
	TypeNormal TransactionType = iota
	TypeRecurrence
	TypeBudget
)

func (t TransactionType) String() string {
	switch t {
	case TypeNormal:
		return "normal"
	case TypeRecurrence:
		return "recurrence"
	case TypeBudget:
		return "budget"
	default:
		return fmt.Sprintf("TransactionType(%d)", int(t))
	}
}

// ParseTransactionType maps a type name back to its TransactionType.
// The empty string is TypeNormal.
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "", "normal":
		return TypeNormal, nil
	case "recurrence":
		return TypeRecurrence, nil
	case "budget":
		return TypeBudget, nil
	default:
		return TypeNormal, fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction owns an ordered, gap-free sequence of splits.
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Date        time.Time
	Description string
	Payee       string
	CheckNo     string
	Notes       string
	Position    int       // tie-break between transactions on the same date
	MTime       time.Time // last modification

	splits []*Split
}

// NewTransaction returns an empty normal transaction at date.
func NewTransaction(date time.Time) *Transaction {
	return &Transaction{
		ID:    uuid.New(),
		Type:  TypeNormal,
		Date:  date,
		MTime: now(),
	}
}

// Len returns the number of splits.
func (t *Transaction) Len() int { return len(t.splits) }

// Splits returns the splits in order. The slice is a copy; the splits are not.
func (t *Transaction) Splits() []*Split { return slices.Clone(t.splits) }

// SplitAt returns the split at index i.
func (t *Transaction) SplitAt(i int) (*Split, error) {
	if i < 0 || i >= len(t.splits) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(t.splits))
	}
	return t.splits[i], nil
}

// Index returns the position of s, or -1 when s is not a member.
func (t *Transaction) Index(s *Split) int {
	if s == nil {
		return -1
	}
	return slices.Index(t.splits, s)
}

func (t *Transaction) member(s *Split) (int, error) {
	i := t.Index(s)
	if i < 0 {
		return -1, ErrNotMember
	}
	return i, nil
}

// AddSplit appends an unassigned split with a blank amount and returns it.
func (t *Transaction) AddSplit() *Split {
	s := &Split{}
	t.splits = append(t.splits, s)
	t.touch()
	return s
}

// MoveSplit moves s to newIndex, shifting the splits in between.
func (t *Transaction) MoveSplit(s *Split, newIndex int) error {
	i, err := t.member(s)
	if err != nil {
		return err
	}
	if newIndex < 0 || newIndex >= len(t.splits) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, newIndex, len(t.splits))
	}
	if i == newIndex {
		return nil
	}
	t.splits = slices.Delete(t.splits, i, i+1)
	t.splits = slices.Insert(t.splits, newIndex, s)
	t.touch()
	return nil
}

// RemoveSplit removes s; later splits move down by one.
func (t *Transaction) RemoveSplit(s *Split) error {
	i, err := t.member(s)
	if err != nil {
		return err
	}
	t.removeAt(i)
	t.touch()
	return nil
}

func (t *Transaction) removeAt(i int) {
	t.splits = slices.Delete(t.splits, i, i+1)
}

// ResizeSplits appends blank unassigned splits or drops trailing ones until
// there are exactly n splits.
func (t *Transaction) ResizeSplits(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	switch {
	case n == len(t.splits):
		return nil
	case n < len(t.splits):
		clear(t.splits[n:])
		t.splits = t.splits[:n:n]
	default:
		grown := slices.Grow(t.splits, n-len(t.splits))
		for len(grown) < n {
			grown = append(grown, &Split{})
		}
		t.splits = grown
	}
	t.touch()
	return nil
}

// SetSplitAmount changes the amount of s.
func (t *Transaction) SetSplitAmount(s *Split, a amount.Amount) error {
	if _, err := t.member(s); err != nil {
		return err
	}
	s.amount = a
	t.touch()
	return nil
}

// SetSplitAccount links s to account; nil makes it unassigned.
func (t *Transaction) SetSplitAccount(s *Split, account *Account) error {
	if _, err := t.member(s); err != nil {
		return err
	}
	s.account = account
	t.touch()
	return nil
}

// SetSplitMemo changes the memo of s.
func (t *Transaction) SetSplitMemo(s *Split, memo string) error {
	if _, err := t.member(s); err != nil {
		return err
	}
	s.memo = memo
	t.touch()
	return nil
}

// SetSplitReference changes the import reference of s.
func (t *Transaction) SetSplitReference(s *Split, ref string) error {
	if _, err := t.member(s); err != nil {
		return err
	}
	s.reference = ref
	t.touch()
	return nil
}

// SetSplitReconciliationDate marks s reconciled at date, or unreconciled when nil.
func (t *Transaction) SetSplitReconciliationDate(s *Split, date *time.Time) error {
	if _, err := t.member(s); err != nil {
		return err
	}
	if date != nil {
		d := *date
		date = &d
	}
	s.reconciled = date
	t.touch()
	return nil
}

// AffectedAccounts returns the distinct accounts referenced by the splits, in split order.
func (t *Transaction) AffectedAccounts() []*Account {
	var accounts []*Account
	for _, s := range t.splits {
		if s.account != nil && !slices.Contains(accounts, s.account) {
			accounts = append(accounts, s.account)
		}
	}
	return accounts
}

// ReassignAccount points every split on from to to. A nil to unassigns them.
func (t *Transaction) ReassignAccount(from, to *Account) {
	changed := false
	for _, s := range t.splits {
		if s.account == from && from != nil {
			s.account = to
			changed = true
		}
	}
	if changed {
		t.touch()
	}
}

// IsMultiCurrency reports whether non-zero splits use more than one currency.
func (t *Transaction) IsMultiCurrency() bool {
	code := ""
	for _, s := range t.splits {
		if s.amount.IsZero() {
			continue
		}
		if code == "" {
			code = s.amount.Code()
		} else if s.amount.Code() != code {
			return true
		}
	}
	return false
}

// Amount returns the total moved by the transaction: the sum of its positive splits.
func (t *Transaction) Amount() (amount.Amount, error) {
	if t.IsMultiCurrency() {
		return amount.Zero, ErrMultiCurrency
	}
	total := amount.Zero
	for _, s := range t.splits {
		if s.amount.Sign() <= 0 {
			continue
		}
		sum, err := total.Add(s.amount)
		if err != nil {
			return amount.Zero, err
		}
		total = sum
	}
	return total, nil
}

// Clone returns a deep copy of t. Accounts are shared references.
func (t *Transaction) Clone() *Transaction {
	dst := &Transaction{}
	Copy(dst, t)
	return dst
}

// Copy resets dst and fills it with a deep copy of src's fields and splits.
func Copy(dst, src *Transaction) {
	*dst = Transaction{
		ID:          src.ID,
		Type:        src.Type,
		Date:        src.Date,
		Description: src.Description,
		Payee:       src.Payee,
		CheckNo:     src.CheckNo,
		Notes:       src.Notes,
		Position:    src.Position,
		MTime:       src.MTime,
	}
	if len(src.splits) == 0 {
		return
	}
	dst.splits = make([]*Split, len(src.splits))
	for i, s := range src.splits {
		dst.splits[i] = s.clone()
	}
}

// Compare orders transactions by date, then position.
func Compare(a, b *Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Position, b.Position)
}

func (t *Transaction) touch() {
	t.MTime = now()
}
