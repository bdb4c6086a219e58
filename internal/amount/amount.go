package amount

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/currency"
)

// blankExponent is used to size a blank amount when formatting or parsing.
const blankExponent = 2

var (
	// ErrCurrencyMismatch is returned when combining non-zero amounts of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrOverflow is returned when a value does not fit the scaled int64 range.
	ErrOverflow = errors.New("amount out of range")

	maxScaled = decimal.NewFromInt(math.MaxInt64)
	minScaled = decimal.NewFromInt(-math.MaxInt64)
)

// Amount is a fixed-point monetary value: scaled = value * 10^exponent.
// The zero Amount has no currency and is the blank sentinel.
type Amount struct {
	scaled int64
	cur    *currency.Currency
}

// Zero is the blank amount.
var Zero = Amount{}

// New returns an Amount of scaled units in cur. A nil currency requires a zero value.
func New(scaled int64, cur *currency.Currency) Amount {
	if cur == nil && scaled != 0 {
		panic(fmt.Sprintf("amount: non-zero value %d without currency", scaled))
	}
	return Amount{scaled: scaled, cur: cur}
}

// NewFromDecimal rounds d half away from zero to the currency's exponent.
func NewFromDecimal(d decimal.Decimal, cur *currency.Currency) (Amount, error) {
	exp := blankExponent
	if cur != nil {
		exp = cur.Exponent()
	}
	scaled := d.Round(int32(exp)).Shift(int32(exp))
	if scaled.GreaterThan(maxScaled) || scaled.LessThan(minScaled) {
		return Amount{}, fmt.Errorf("%w: %s", ErrOverflow, d)
	}
	if cur == nil {
		if !scaled.IsZero() {
			return Amount{}, fmt.Errorf("%w: %s has no currency", ErrCurrencyMismatch, d)
		}
		return Amount{}, nil
	}
	return Amount{scaled: scaled.IntPart(), cur: cur}, nil
}

// Currency returns the currency, nil for the blank amount.
func (a Amount) Currency() *currency.Currency { return a.cur }

// Code returns the currency code, "" for the blank amount.
func (a Amount) Code() string {
	if a.cur == nil {
		return ""
	}
	return a.cur.Code()
}

// Scaled returns the integer value in minor units.
func (a Amount) Scaled() int64 { return a.scaled }

// Exponent returns the currency exponent (2 for the blank amount).
func (a Amount) Exponent() int {
	if a.cur == nil {
		return blankExponent
	}
	return a.cur.Exponent()
}

func (a Amount) IsZero() bool { return a.scaled == 0 }

// Sign returns -1, 0 or 1.
func (a Amount) Sign() int {
	switch {
	case a.scaled < 0:
		return -1
	case a.scaled > 0:
		return 1
	}
	return 0
}

func (a Amount) Neg() Amount { return Amount{scaled: -a.scaled, cur: a.cur} }

func (a Amount) Abs() Amount {
	if a.scaled < 0 {
		return a.Neg()
	}
	return a
}

// Equal requires equal values and equal currencies, including both blank.
func (a Amount) Equal(b Amount) bool {
	return a.scaled == b.scaled && a.Code() == b.Code()
}

// Add sums two amounts. A zero amount adopts the currency of the other side.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.IsZero() && a.cur == nil {
		return b, nil
	}
	if b.IsZero() {
		return a, nil
	}
	if a.IsZero() {
		return b, nil
	}
	if a.Code() != b.Code() {
		return Amount{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, a.Code(), b.Code())
	}
	sum := a.scaled + b.scaled
	if (a.scaled > 0 && b.scaled > 0 && sum < 0) || (a.scaled < 0 && b.scaled < 0 && sum >= 0) || sum == math.MinInt64 {
		return Amount{}, ErrOverflow
	}
	return Amount{scaled: sum, cur: a.cur}, nil
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(b.Neg())
}

// Decimal returns the exact decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.scaled, -int32(a.Exponent()))
}

// String formats with the default separators and an explicit currency code.
func (a Amount) String() string {
	return Format(a, DefaultFormatConfig, FormatOptions{ShowCurrency: true})
}

// SameCurrency reports whether a and b can be combined: zero amounts match any currency.
func SameCurrency(a, b Amount) bool {
	return a.IsZero() || b.IsZero() || a.Code() == b.Code()
}

// OfCurrency reports whether a is zero or expressed in code.
func OfCurrency(a Amount, code string) bool {
	return a.IsZero() || strings.EqualFold(a.Code(), code)
}
