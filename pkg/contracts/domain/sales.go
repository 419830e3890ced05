package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is a single row of the raw sales dataset
type SaleRecord struct {
	RowNumber   int             `json:"row_number"`
	OrderID     string          `json:"order_id,omitempty"`
	CustomerID  string          `json:"customer_id,omitempty"`
	OrderDate   time.Time       `json:"order_date"`
	Manager     string          `json:"manager"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category,omitempty"`
	ProductName string          `json:"product_name"`
	Sales       decimal.Decimal `json:"sales"`
}

// Year returns the calendar year of the order
func (r SaleRecord) Year() int {
	return r.OrderDate.Year()
}

// Month returns the calendar month of the order
func (r SaleRecord) Month() time.Month {
	return r.OrderDate.Month()
}

// Period returns the order month as "2006-01"
func (r SaleRecord) Period() string {
	return r.OrderDate.Format(PeriodLayout)
}

// PeriodLayout is the time layout used for month keys
const PeriodLayout = "2006-01"

// Column identifies a logical column of the sales dataset
type Column string

const (
	ColumnOrderDate   Column = "order_date"
	ColumnManager     Column = "manager"
	ColumnCategory    Column = "category"
	ColumnSubCategory Column = "sub_category"
	ColumnProductName Column = "product_name"
	ColumnSales       Column = "sales"
	ColumnOrderID     Column = "order_id"
	ColumnCustomerID  Column = "customer_id"
)

var columnHeaders = map[Column]string{
	ColumnOrderID:     "Order ID",
	ColumnOrderDate:   "Order Date",
	ColumnCustomerID:  "Customer ID",
	ColumnManager:     "Manager",
	ColumnCategory:    "Category",
	ColumnSubCategory: "Sub-Category",
	ColumnProductName: "Product Name",
	ColumnSales:       "Sales",
}

// Header returns the canonical header text of the column
func (c Column) Header() string {
	if h, ok := columnHeaders[c]; ok {
		return h
	}
	return string(c)
}

// DataColumns lists every logical column in output order
var DataColumns = []Column{
	ColumnOrderID,
	ColumnOrderDate,
	ColumnCustomerID,
	ColumnManager,
	ColumnCategory,
	ColumnSubCategory,
	ColumnProductName,
	ColumnSales,
}

// RequiredColumns must be present in every input file
var RequiredColumns = []Column{
	ColumnOrderDate,
	ColumnManager,
	ColumnCategory,
	ColumnProductName,
	ColumnSales,
}

// Dataset is the loaded input: the header as found in the file plus the parsed rows
type Dataset struct {
	Source  string
	Sheet   string
	Headers []string
	// Columns maps each recognised logical column to its index in Headers
	Columns map[Column]int
	Records []SaleRecord
}

// HasColumn reports whether the input carried the given logical column
func (d *Dataset) HasColumn(c Column) bool {
	_, ok := d.Columns[c]
	return ok
}

// IsRequired reports whether the column must be present in every input
func (c Column) IsRequired() bool {
	for _, r := range RequiredColumns {
		if r == c {
			return true
		}
	}
	return false
}

// HeaderFor returns the header text used in the input for a logical column
func (d *Dataset) HeaderFor(c Column) string {
	if idx, ok := d.Columns[c]; ok && idx < len(d.Headers) {
		return d.Headers[idx]
	}
	return ""
}
