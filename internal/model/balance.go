package model

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/amount"
)

// currencyGroup is the set of non-zero splits sharing a currency.
type currencyGroup struct {
	code   string
	sum    amount.Amount
	splits []*Split
}

func (t *Transaction) currencyGroups() ([]*currencyGroup, error) {
	var groups []*currencyGroup
	byCode := make(map[string]*currencyGroup)
	for _, s := range t.splits {
		if s.amount.IsZero() {
			continue
		}
		code := s.amount.Code()
		g, ok := byCode[code]
		if !ok {
			g = &currencyGroup{code: code}
			byCode[code] = g
			groups = append(groups, g)
		}
		sum, err := g.sum.Add(s.amount)
		if err != nil {
			return nil, fmt.Errorf("summing %s splits: %w", code, err)
		}
		g.sum = sum
		g.splits = append(g.splits, s)
	}
	return groups, nil
}

// BalanceCurrencies brings every currency group of the transaction to zero
// without converting between currencies.
//
// A group that does not sum to zero gets a new unassigned split holding the
// negated sum. When strong is in that group, the first unassigned split of the
// group's currency other than strong is adjusted in place instead, provided the
// group holds at least one other non-zero split; an adjusted split that ends at
// zero is removed. Calling it again with the same strong split changes nothing.
func (t *Transaction) BalanceCurrencies(strong *Split) error {
	if strong != nil {
		if _, err := t.member(strong); err != nil {
			return err
		}
	}
	groups, err := t.currencyGroups()
	if err != nil {
		return err
	}

	type fix struct {
		target *Split // nil: append a new split
		amount amount.Amount
	}
	var fixes []fix
	for _, g := range groups {
		if g.sum.IsZero() {
			continue
		}
		target := g.absorber(t.splits, strong)
		if target == nil {
			fixes = append(fixes, fix{amount: g.sum.Neg()})
			continue
		}
		adjusted, err := target.amount.Sub(g.sum)
		if err != nil {
			return fmt.Errorf("balancing %s: %w", g.code, err)
		}
		fixes = append(fixes, fix{target: target, amount: adjusted})
	}
	if len(fixes) == 0 {
		return nil
	}

	for _, f := range fixes {
		switch {
		case f.target == nil:
			t.splits = append(t.splits, &Split{amount: f.amount})
		case f.amount.IsZero():
			t.removeAt(t.Index(f.target))
		default:
			f.target.amount = f.amount
		}
	}
	t.touch()
	return nil
}

// absorber returns the unassigned split that takes up the group's imbalance:
// the first one in split order that is not strong and is not the group's only
// non-zero split. A zero-amount split already in the group's currency qualifies.
// Groups that strong does not belong to have no absorber.
func (g *currencyGroup) absorber(splits []*Split, strong *Split) *Split {
	if strong == nil || strong.amount.Code() != g.code {
		return nil
	}
	for _, s := range splits {
		if s.account != nil || s == strong || s.amount.Code() != g.code {
			continue
		}
		others := 0
		for _, m := range g.splits {
			if m != s {
				others++
			}
		}
		if others > 0 {
			return s
		}
	}
	return nil
}

// Balance fixes a single-currency imbalance the way a user editing one split
// expects. Multi-currency transactions are handed to BalanceCurrencies.
//
// With one split, an offsetting unassigned split is added. With keepTwoSplits and
// exactly two splits, the weak split mirrors strong. Otherwise the imbalance goes
// to the first unassigned split other than strong, or to a new one, and weak
// unassigned splits left at zero are dropped.
func (t *Transaction) Balance(strong *Split, keepTwoSplits bool) error {
	if strong != nil {
		if _, err := t.member(strong); err != nil {
			return err
		}
	}
	if t.IsMultiCurrency() {
		return t.BalanceCurrencies(strong)
	}

	if len(t.splits) == 1 {
		if only := t.splits[0]; !only.amount.IsZero() {
			t.splits = append(t.splits, &Split{amount: only.amount.Neg()})
			t.touch()
		}
		return nil
	}

	if keepTwoSplits && len(t.splits) == 2 {
		if strong == nil {
			return nil
		}
		weak := t.splits[0]
		if weak == strong {
			weak = t.splits[1]
		}
		weak.amount = strong.amount.Neg()
		t.touch()
		return nil
	}

	imbalance := amount.Zero
	for _, s := range t.splits {
		sum, err := imbalance.Add(s.amount)
		if err != nil {
			return fmt.Errorf("summing splits: %w", err)
		}
		imbalance = sum
	}

	changed := false
	if !imbalance.IsZero() {
		weak := t.firstWeakUnassigned(strong)
		if weak != nil {
			adjusted, err := weak.amount.Sub(imbalance)
			if err != nil {
				return fmt.Errorf("balancing: %w", err)
			}
			weak.amount = adjusted
		} else {
			t.splits = append(t.splits, &Split{amount: imbalance.Neg()})
		}
		changed = true
	}

	kept := t.splits[:0]
	for _, s := range t.splits {
		if s.account == nil && s != strong && s.amount.IsZero() {
			changed = true
			continue
		}
		kept = append(kept, s)
	}
	clear(t.splits[len(kept):])
	t.splits = kept

	if changed {
		t.touch()
	}
	return nil
}

func (t *Transaction) firstWeakUnassigned(strong *Split) *Split {
	for _, s := range t.splits {
		if s.account == nil && s != strong {
			return s
		}
	}
	return nil
}
