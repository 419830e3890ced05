package exporter

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatMoney renders an amount with the currency symbol and grouped thousands, e.g. ₦1,234.50
func formatMoney(symbol string, d decimal.Decimal) string {
	return symbol + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// formatPercent renders a ratio as a percentage with one decimal, e.g. 0.1234 -> 12.3%
func formatPercent(ratio decimal.Decimal) string {
	return printer.Sprintf("%.1f%%", ratio.Mul(decimal.NewFromInt(100)).InexactFloat64())
}

// formatCount renders an integer with grouped thousands
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// moneyNumFmt is the cell number format for amounts in the given currency
func moneyNumFmt(symbol string) string {
	symbol = strings.ReplaceAll(symbol, `"`, "")
	if symbol == "" {
		return "#,##0.00"
	}
	return `"` + symbol + `"#,##0.00`
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
