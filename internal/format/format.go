// Package format renders money and percentage values for display. The
// recognized options are enumerated explicitly instead of an untyped bag:
// ISO currency code, locale tag and decimal places.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Options configures display formatting.
type Options struct {
	Currency string // ISO 4217 code, e.g. "USD"
	Locale   string // BCP 47 tag; informational, grouping follows the currency
	Decimals int    // rounding applied before formatting
}

// DefaultOptions matches the original single-currency display.
func DefaultOptions() Options {
	return Options{Currency: "USD", Locale: "en-US", Decimals: 2}
}

// Currency renders v as a localized currency string, e.g. "$1,234.50".
// Unknown currency codes fall back to USD.
func Currency(v float64, opts Options) string {
	cur := money.GetCurrency(opts.Currency)
	if cur == nil {
		cur = money.GetCurrency("USD")
	}
	d := decimal.NewFromFloat(v).Round(int32(opts.Decimals))
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// SignedCurrency prefixes positive amounts with "+", matching how realized
// profit is shown.
func SignedCurrency(v float64, opts Options) string {
	s := Currency(v, opts)
	if v > 0 {
		return "+" + s
	}
	return s
}

// CompactCurrency abbreviates amounts for chart axes: "$0", "$512.5",
// "$1.5k".
func CompactCurrency(v float64, opts Options) string {
	if v == 0 {
		return currencySymbol(opts) + "0"
	}
	if v >= 1000 || v <= -1000 {
		k := decimal.NewFromFloat(v / 1000).Round(1)
		return currencySymbol(opts) + k.StringFixed(1) + "k"
	}
	return currencySymbol(opts) + decimal.NewFromFloat(v).String()
}

// ProfitPercent is profit as a percentage of cost, defined as 0 when the
// cost is 0 so a freebie never divides by zero.
func ProfitPercent(profit, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return profit / cost * 100
}

// Percent renders a percentage with the given number of decimals: "30.0%".
func Percent(v float64, decimals int) string {
	return decimal.NewFromFloat(v).Round(int32(decimals)).StringFixed(int32(decimals)) + "%"
}

// MonthLabel turns a YYYY-MM bucket key into a short display label such as
// "Mar 24". Keys that do not parse come back unchanged.
func MonthLabel(key string) string {
	parts := strings.SplitN(key, "-", 3)
	if len(parts) < 2 {
		return key
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return key
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return key
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 06")
}

func currencySymbol(opts Options) string {
	cur := money.GetCurrency(opts.Currency)
	if cur == nil {
		cur = money.GetCurrency("USD")
	}
	return cur.Grapheme
}
