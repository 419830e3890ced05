// Package dataprocessing loads raw sales datasets and aggregates them into
// the tables the report is built from.
//
// # Loading
//
// LoadFile reads .xlsx/.xlsm workbooks and .csv files. Headers are matched
// case-insensitively with a few aliases ("Amount" for "Sales", "Date" for
// "Order Date" and so on). A missing required column is a schema error, a
// cell that cannot be read as a date or an amount is a parsing error that
// names the input row:
//
//	ds, err := dataprocessing.LoadFile(ctx, "GLOBAL DATASET .xlsx", dataprocessing.LoadOptions{})
//	if err != nil {
//	    return err
//	}
//
// # Aggregation
//
// The Analyzer turns a dataset into manager, category, product, yearly and
// monthly tables plus the dashboard KPIs. Amounts are summed as exact
// decimals:
//
//	analyzer := dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig())
//	analysis := analyzer.Analyze(ctx, ds)
//
// Group-by keeps the order in which keys first appear in the input. Rankings
// sort by value, highest first, and break ties by first appearance.
//
// # Data Flow
//
//	Excel/CSV File → LoadFile → Dataset → Analyzer → Analysis → exporter
package dataprocessing
