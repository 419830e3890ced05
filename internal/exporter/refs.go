package exporter

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var plainSheetName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// quoteSheet returns the sheet name as it must appear in a formula reference.
func quoteSheet(name string) string {
	if plainSheetName.MatchString(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// cellName converts 1-based coordinates to "B7". Callers only pass valid coordinates.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// absCell converts 1-based coordinates to "$B$7".
func absCell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row, true)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

// sheetRange renders 'Sheet'!$A$2:$B$9 for chart series and formulas.
func sheetRange(sheet string, col1, row1, col2, row2 int) string {
	return quoteSheet(sheet) + "!" + absCell(col1, row1) + ":" + absCell(col2, row2)
}

// columnRef renders a whole-column reference such as Data!$H:$H.
func columnRef(sheet, letter string) string {
	return quoteSheet(sheet) + "!$" + letter + ":$" + letter
}

// formulaString renders s as a formula string literal.
func formulaString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var criteriaEscaper = strings.NewReplacer("~", "~~", "*", "~*", "?", "~?")

// criteriaString renders s as a SUMIF criteria literal that matches s exactly.
// The leading "=" keeps <, > and = in s from being read as operators.
func criteriaString(s string) string {
	return formulaString("=" + criteriaEscaper.Replace(s))
}
