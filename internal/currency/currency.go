package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	money "github.com/Rhymond/go-money"
	"golang.org/x/text/currency"
)

// MaxExponent is the largest number of fractional digits a currency may carry.
const MaxExponent = 5

// DefaultPriority is used for currencies registered without WithPriority.
const DefaultPriority = 100

var (
	// ErrUnknownCurrency is returned when a code is not in the registry.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrInvalidExponent is returned when registering an exponent outside 0..MaxExponent.
	ErrInvalidExponent = errors.New("invalid currency exponent")
	// ErrInvalidCode is returned when registering an empty or non-alphabetic code.
	ErrInvalidCode = errors.New("invalid currency code")
)

// Currency is an immutable registry entry.
type Currency struct {
	code     string
	name     string
	exponent int
	priority int
}

// Code returns the upper-case currency code, e.g. "USD".
func (c *Currency) Code() string { return c.code }

// Name returns the display name, or the code when none was given.
func (c *Currency) Name() string {
	if c.name == "" {
		return c.code
	}
	return c.name
}

// Exponent returns the number of fractional digits.
func (c *Currency) Exponent() int { return c.exponent }

// Priority orders currencies in All(); lower goes first.
func (c *Currency) Priority() int { return c.priority }

func (c *Currency) String() string { return c.code }

// Option customizes a registration.
type Option func(*Currency)

// WithName sets the display name.
func WithName(name string) Option {
	return func(c *Currency) { c.name = name }
}

// WithPriority sets the ordering priority.
func WithPriority(p int) Option {
	return func(c *Currency) { c.priority = p }
}

// Registry is an append-only set of currencies keyed by code.
// The first registration of a code wins.
type Registry struct {
	mu     sync.RWMutex
	byCode map[string]*Currency
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]*Currency)}
}

// Register inserts a currency if its code is absent and returns the stored entry.
// Registering an existing code is a no-op that returns the existing entry.
func (r *Registry) Register(code string, exponent int, opts ...Option) (*Currency, error) {
	key := normalize(code)
	if !validCode(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCode[key]; ok {
		return existing, nil
	}
	if exponent < 0 || exponent > MaxExponent {
		return nil, fmt.Errorf("%w: %s has %d", ErrInvalidExponent, key, exponent)
	}

	c := &Currency{code: key, exponent: exponent, priority: DefaultPriority}
	for _, opt := range opts {
		opt(c)
	}
	r.byCode[key] = c
	return c, nil
}

// RegisterISO registers an ISO-4217 code using its standard number of fractional digits.
func (r *Registry) RegisterISO(code string, opts ...Option) (*Currency, error) {
	exp, ok := isoExponent(normalize(code))
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an ISO-4217 code", ErrUnknownCurrency, code)
	}
	return r.Register(code, exp, opts...)
}

// Lookup returns the currency registered under code.
func (r *Registry) Lookup(code string) (*Currency, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byCode[normalize(code)]
	return c, ok
}

// Get is Lookup with an error for absent codes.
func (r *Registry) Get(code string) (*Currency, error) {
	c, ok := r.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c, nil
}

// Has reports whether code is registered.
func (r *Registry) Has(code string) bool {
	_, ok := r.Lookup(code)
	return ok
}

// Len returns the number of registered currencies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}

// All returns every currency ordered by priority, then code.
func (r *Registry) All() []*Currency {
	r.mu.RLock()
	all := make([]*Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		all = append(all, c)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority < all[j].priority
		}
		return all[i].code < all[j].code
	})
	return all
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// isoExponent resolves the standard fraction digits for code, preferring
// go-money's table and falling back to CLDR data from x/text.
func isoExponent(code string) (int, bool) {
	if c := money.GetCurrency(code); c != nil {
		return c.Fraction, true
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, false
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, true
}
