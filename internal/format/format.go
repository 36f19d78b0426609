// Package format renders ledger values for display.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ledger/internal/core"
)

// CurrencyPrefix is prepended to every formatted amount.
const CurrencyPrefix = "NT$"

var (
	printer  = message.NewPrinter(language.English)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Amount renders d with thousands separators and at most two decimals,
// dropping trailing zeros: 1234.5 -> "NT$1,234.5", -40 -> "-NT$40".
func Amount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	d = d.Round(2)

	whole := d.Truncate(0)
	frac := d.Sub(whole).StringFixed(2)[1:] // ".xx"
	frac = strings.TrimRight(strings.TrimRight(frac, "0"), ".")

	return sign + CurrencyPrefix + groupInt(whole) + frac
}

// groupInt renders a non-negative integral decimal with thousands separators.
// Values past int64 are grouped by hand since IntPart would wrap.
func groupInt(whole decimal.Decimal) string {
	if whole.LessThanOrEqual(maxInt64) {
		return printer.Sprintf("%d", whole.IntPart())
	}
	digits := whole.String()
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Date renders a YYYY-MM-DD date as YYYY/MM/DD. Unparseable input is returned as is.
func Date(s string) string {
	t, err := core.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("2006/01/02")
}

// Today returns now as a YYYY-MM-DD string, the default form date.
func Today(now time.Time) string {
	return now.Format(core.DateLayout)
}
