package output

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Number formats n with thousands separators: 12345 -> "12,345".
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Decimal formats f with thousands separators and the given precision.
func Decimal(f float64, precision int) string {
	return printer.Sprint(number.Decimal(f,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision),
	))
}

// Duration formats whole minutes as "Xh YYm", or "Ym" under an hour.
func Duration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%sh %02dm", Number(minutes/60), minutes%60)
}

// Ago renders t relative to now, e.g. "3 days ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// Ordinal renders n as "1st", "2nd" and so on.
func Ordinal(n int) string {
	return humanize.Ordinal(n)
}
