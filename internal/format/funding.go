// Package format renders funding amounts and dates for the dashboard and
// CSV export.
package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	lakh = 100000
	na   = "N/A"
)

// FundingFormatter renders an optional funding amount for display.
type FundingFormatter interface {
	Format(amount *float64) string
}

// LakhFormatter shows amounts of at least one lakh (100,000) as a multiple of
// a lakh with one decimal, and smaller amounts as whole currency units.
type LakhFormatter struct {
	symbol  string
	printer *message.Printer
}

// NewLakhFormatter returns a LakhFormatter for the given currency symbol and
// BCP 47 locale, e.g. "₹" and "en-IN".
func NewLakhFormatter(symbol string, locale string) *LakhFormatter {
	return &LakhFormatter{symbol: symbol, printer: newPrinter(locale)}
}

func (f *LakhFormatter) Format(amount *float64) string {
	if amount == nil {
		return na
	}
	v := *amount
	if v >= lakh {
		lakhs := v / lakh
		unit := "Lakhs"
		if lakhs == 1 {
			unit = "Lakh"
		}
		return fmt.Sprintf("%s%s %s", f.symbol, strconv.FormatFloat(math.Round(lakhs*10)/10, 'f', 1, 64), unit)
	}
	return wholeAmount(f.printer, f.symbol, v)
}

// PlainFormatter shows every amount as whole currency units with locale
// grouping and no magnitude unit.
type PlainFormatter struct {
	symbol  string
	printer *message.Printer
}

func NewPlainFormatter(symbol string, locale string) *PlainFormatter {
	return &PlainFormatter{symbol: symbol, printer: newPrinter(locale)}
}

func (f *PlainFormatter) Format(amount *float64) string {
	if amount == nil {
		return na
	}
	return wholeAmount(f.printer, f.symbol, *amount)
}

// NewFundingFormatter picks a strategy by name: "lakh" (default) or "plain".
func NewFundingFormatter(strategy string, symbol string, locale string) (FundingFormatter, error) {
	switch strategy {
	case "", "lakh":
		return NewLakhFormatter(symbol, locale), nil
	case "plain":
		return NewPlainFormatter(symbol, locale), nil
	}
	return nil, fmt.Errorf("unknown funding format %q", strategy)
}

func newPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func wholeAmount(p *message.Printer, symbol string, v float64) string {
	rounded := math.Round(v)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + symbol + p.Sprint(number.Decimal(math.Abs(rounded), number.MaxFractionDigits(0)))
}
