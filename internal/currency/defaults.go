package currency

type seed struct {
	code     string
	name     string
	priority int
}

// USD, EUR and CAD come first, the rest keep the default priority.
var seeds = []seed{
	{"USD", "U.S. dollar", 1},
	{"EUR", "European Euro", 2},
	{"GBP", "U.K. pound sterling", 3},
	{"CAD", "Canadian dollar", 4},
	{"AUD", "Australian dollar", 5},
	{"JPY", "Japanese yen", 6},
	{"CHF", "Swiss franc", 7},
	{"AED", "U.A.E. dirham", DefaultPriority},
	{"ARS", "Argentine peso", DefaultPriority},
	{"BGN", "Bulgarian lev", DefaultPriority},
	{"BHD", "Bahraini dinar", DefaultPriority},
	{"BRL", "Brazilian real", DefaultPriority},
	{"CLP", "Chilean peso", DefaultPriority},
	{"CNY", "Chinese renminbi", DefaultPriority},
	{"CZK", "Czech koruna", DefaultPriority},
	{"DKK", "Danish krone", DefaultPriority},
	{"HKD", "Hong Kong dollar", DefaultPriority},
	{"HUF", "Hungarian forint", DefaultPriority},
	{"IDR", "Indonesian rupiah", DefaultPriority},
	{"ILS", "Israeli new shekel", DefaultPriority},
	{"INR", "Indian rupee", DefaultPriority},
	{"ISK", "Icelandic krona", DefaultPriority},
	{"JOD", "Jordanian dinar", DefaultPriority},
	{"KRW", "South Korean won", DefaultPriority},
	{"KWD", "Kuwaiti dinar", DefaultPriority},
	{"MXN", "Mexican peso", DefaultPriority},
	{"MYR", "Malaysian ringgit", DefaultPriority},
	{"NOK", "Norwegian krone", DefaultPriority},
	{"NZD", "New Zealand dollar", DefaultPriority},
	{"OMR", "Omani rial", DefaultPriority},
	{"PHP", "Philippine peso", DefaultPriority},
	{"PLN", "Polish zloty", DefaultPriority},
	{"RON", "Romanian new leu", DefaultPriority},
	{"SAR", "Saudi riyal", DefaultPriority},
	{"SEK", "Swedish krona", DefaultPriority},
	{"SGD", "Singapore dollar", DefaultPriority},
	{"THB", "Thai baht", DefaultPriority},
	{"TND", "Tunisian dinar", DefaultPriority},
	{"TRY", "Turkish lira", DefaultPriority},
	{"TWD", "New Taiwan dollar", DefaultPriority},
	{"UAH", "Ukrainian hryvnia", DefaultPriority},
	{"VND", "Vietnamese dong", DefaultPriority},
	{"ZAR", "South African rand", DefaultPriority},
}

// fallbackExponent is used for seed codes missing from both currency tables.
const fallbackExponent = 2

// Default returns a registry pre-populated with the common currencies.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range seeds {
		exp, ok := isoExponent(s.code)
		if !ok || exp > MaxExponent {
			exp = fallbackExponent
		}
		// seeds are static and valid, Register cannot fail here.
		_, _ = r.Register(s.code, exp, WithName(s.name), WithPriority(s.priority))
	}
	return r
}
