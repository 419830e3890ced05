package dataprocessing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	errEmptyValue = errors.New("value is empty")

	// dateLayouts are tried in order for text dates
	dateLayouts = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"1/2/2006",
		"1/2/2006 15:04",
		"02/01/2006",
		"02-01-2006",
		"2 Jan 2006",
		"Jan 2, 2006",
		"2006/01/02",
	}

	// currencySymbols are stripped from amounts before parsing
	currencySymbols = []string{"₦", "$", "€", "£", "¥", "NGN"}
)

// parseDate reads an order date. Workbook cells carry raw serial numbers.
func parseDate(raw string, allowSerial bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errEmptyValue
	}
	if allowSerial {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			if serial <= 0 {
				return time.Time{}, fmt.Errorf("invalid date serial %v", serial)
			}
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, err
			}
			return t.Round(time.Second), nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

// parseAmount reads a sales amount. A blank cell counts as zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("no digits in amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
