package amount

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FormatConfig holds the separators used to render amounts.
type FormatConfig struct {
	DecimalSeparator  string
	GroupingSeparator string
}

// DefaultFormatConfig renders 1234.5 USD as "1,234.50".
var DefaultFormatConfig = FormatConfig{DecimalSeparator: ".", GroupingSeparator: ","}

// Validate checks that the separators are glyphs Parse understands: the decimal
// separator is one of ". , '" and the grouping separator is one of ". , ' space"
// or empty, and the two differ.
func (c FormatConfig) Validate() error {
	switch c.DecimalSeparator {
	case ".", ",", "'":
	default:
		return fmt.Errorf("invalid decimal separator %q", c.DecimalSeparator)
	}
	switch c.GroupingSeparator {
	case "", ".", ",", "'", " ":
	default:
		return fmt.Errorf("invalid grouping separator %q", c.GroupingSeparator)
	}
	if c.DecimalSeparator == c.GroupingSeparator {
		return errors.New("decimal and grouping separators must differ")
	}
	return nil
}

// FormatOptions control a single Format call.
type FormatOptions struct {
	// ShowCurrency prefixes the currency code.
	ShowCurrency bool
	// BlankZero renders zero as "".
	BlankZero bool
	// DefaultCurrency, when set, also prefixes the code of amounts in any other currency.
	DefaultCurrency string
}

// Format renders a as text, e.g. "USD -1,234.50".
func Format(a Amount, cfg FormatConfig, opts FormatOptions) string {
	if a.IsZero() && opts.BlankZero {
		return ""
	}

	exp := a.Exponent()
	digits := strconv.FormatUint(magnitude(a.scaled), 10)
	if len(digits) <= exp {
		digits = strings.Repeat("0", exp-len(digits)+1) + digits
	}
	intPart, fracPart := digits[:len(digits)-exp], digits[len(digits)-exp:]

	var b strings.Builder
	if a.cur != nil && (opts.ShowCurrency || (opts.DefaultCurrency != "" && !strings.EqualFold(a.Code(), opts.DefaultCurrency))) {
		b.WriteString(a.Code())
		b.WriteByte(' ')
	}
	if a.scaled < 0 {
		b.WriteByte('-')
	}
	b.WriteString(group(intPart, cfg.GroupingSeparator))
	if exp > 0 {
		b.WriteString(cfg.DecimalSeparator)
		b.WriteString(fracPart)
	}
	return b.String()
}

// group inserts sep every three digits from the right.
func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func magnitude(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}
