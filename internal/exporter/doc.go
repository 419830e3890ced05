// Package exporter renders an analysis as the report workbook.
//
// WorkbookExporter writes seven sheets: Data, Manager Performance, Category
// Trends, Monthly Trend, Top Products, Dashboard and Findings &
// Recommendations. Value columns hold the aggregates computed in Go. When
// live formulas are enabled, extra "(live)" columns carry SUMIF/SUMIFS/RANK
// formulas over the Data sheet so the workbook recalculates after edits.
//
// Example usage:
//
//	exp := exporter.NewWorkbookExporter(exporter.WorkbookOptions{
//	    CurrencySymbol:   "₦",
//	    HighlightManager: "Emmanuel",
//	    LiveFormulas:     true,
//	}, logger)
//	summary, err := exp.Export(ctx, dataset, analysis, "GlobalTech_Sales_Analysis.xlsx")
//
// TableExporter writes the same aggregate tables as UTF-8 CSV files with a
// byte order mark so Excel opens them correctly.
package exporter
