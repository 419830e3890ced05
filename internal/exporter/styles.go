package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	colorHeaderFill    = "D9E1F2"
	colorHighlightFill = "FFF2CC"
	colorTopFill       = "C6EFCE"
	colorTopFont       = "006100"
	colorBottomFill    = "FFC7CE"
	colorBottomFont    = "9C0006"

	numFmtInteger = 3  // #,##0
	numFmtPercent = 10 // 0.00%
	dateNumFmt    = "yyyy-mm-dd"
)

// styleSet holds the style IDs registered on one workbook
type styleSet struct {
	header         int
	title          int
	money          int
	percent        int
	integer        int
	date           int
	kpiLabel       int
	kpiMoney       int
	kpiValue       int
	highlight      int
	highlightMoney int

	// conditional formats
	top    int
	bottom int
}

func newStyleSet(f *excelize.File, currency string) (styleSet, error) {
	var (
		s   styleSet
		err error
	)
	add := func(style *excelize.Style) int {
		if err != nil {
			return 0
		}
		var id int
		id, err = f.NewStyle(style)
		return id
	}

	money := moneyNumFmt(currency)
	date := dateNumFmt
	solid := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	s.header = add(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   solid(colorHeaderFill),
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	s.title = add(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	s.money = add(&excelize.Style{CustomNumFmt: &money})
	s.percent = add(&excelize.Style{NumFmt: numFmtPercent})
	s.integer = add(&excelize.Style{NumFmt: numFmtInteger})
	s.date = add(&excelize.Style{CustomNumFmt: &date})
	s.kpiLabel = add(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	s.kpiMoney = add(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 14},
		CustomNumFmt: &money,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	s.kpiValue = add(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		NumFmt:    numFmtInteger,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.highlight = add(&excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solid(colorHighlightFill)})
	s.highlightMoney = add(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         solid(colorHighlightFill),
		CustomNumFmt: &money,
	})
	if err != nil {
		return s, fmt.Errorf("failed to register cell styles: %w", err)
	}

	if s.top, err = f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: colorTopFont},
		Fill: solid(colorTopFill),
	}); err != nil {
		return s, fmt.Errorf("failed to register conditional style: %w", err)
	}
	if s.bottom, err = f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: colorBottomFont},
		Fill: solid(colorBottomFill),
	}); err != nil {
		return s, fmt.Errorf("failed to register conditional style: %w", err)
	}
	return s, nil
}
