package exporter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"salesreport/pkg/contracts/domain"
)

func TestFindingLines(t *testing.T) {
	lines := findingLines(analyze(sampleDataset()), defaultOptions())

	assert.Equal(t, "Executive Summary:", lines[0])
	assert.Contains(t, lines, "- Total Sales (2014-2015): ₦660.75")
	assert.Contains(t, lines, "- Total Orders: 4")
	assert.Contains(t, lines, "- Distinct Managers: 3")
	assert.Contains(t, lines, "- Average Order Value: ₦165.19")
	assert.Contains(t, lines, "- Highlighted Manager: Emmanuel ranks 3 of 3 with ₦150.75 (22.8% of total sales).")
	assert.Contains(t, lines, "- Top Category by cumulative sales: Furniture (consider re-allocating marketing spend toward this category).")
	assert.Contains(t, lines, "- Best month: 2015-02 with ₦310.00.")
	assert.Contains(t, lines, "- Latest month (2015-02) has no comparable previous month.")

	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "Top Manager: Tunde with ₦300.00")
	assert.Contains(t, joined, "Top Product: Phone X contributes 45.5% of total sales")
}

func TestFindingLinesEmpty(t *testing.T) {
	lines := findingLines(analyze(&domain.Dataset{}), WorkbookOptions{CurrencySymbol: "$"})

	assert.Contains(t, lines, "- Total Sales: $0.00")
	assert.Contains(t, lines, "- No sales records were found in the input.")
	assert.NotContains(t, lines, "Manager Performance:")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "₦1,234,567.89", formatMoney("₦", decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "$0.00", formatMoney("$", decimal.Zero))
	assert.Equal(t, "12.3%", formatPercent(decimal.RequireFromString("0.1234")))
	assert.Equal(t, "1,234,567", formatCount(1234567))
	assert.Equal(t, `"₦"#,##0.00`, moneyNumFmt("₦"))
	assert.Equal(t, "#,##0.00", moneyNumFmt(""))
}
