package service

import (
	"errors"
	"strings"

	"github.com/donde/storefront-backend/internal/app/model"
)

var ErrCurrencyNotSupported = errors.New("currency not supported")

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyILS Currency = "ILS"
	CurrencyAZN Currency = "AZN"
)

// DefaultCurrency is used when neither the request nor the setup config names one.
const DefaultCurrency = CurrencyUSD

var supportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyILS, CurrencyAZN}

// SupportedCurrencies lists the currencies a product can be priced in.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// ParseCurrency accepts a currency code in any case.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	for _, supported := range supportedCurrencies {
		if c == supported {
			return c, nil
		}
	}
	return "", ErrCurrencyNotSupported
}

// PriceIn returns the product price in currency c. A missing per-currency
// price falls back to price_usd, then the legacy price, then 0.
func PriceIn(p *model.Product, c Currency) float64 {
	var specific *float64
	switch c {
	case CurrencyEUR:
		specific = p.PriceEUR
	case CurrencyILS:
		specific = p.PriceILS
	case CurrencyAZN:
		specific = p.PriceAZN
	}

	for _, v := range []*float64{specific, p.PriceUSD, p.Price} {
		if v != nil {
			return *v
		}
	}
	return 0
}
