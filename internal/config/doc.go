// Package config provides configuration management for the report builder.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Command line flags (applied by cmd/salesreport)
//  2. Environment variables, including those from a local .env file
//  3. A YAML configuration file
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALESREPORT_<SECTION>_<FIELD>:
//
//	SALESREPORT_REPORT_INPUT="GLOBAL DATASET .xlsx"
//	SALESREPORT_REPORT_TOP_PRODUCTS=10
//	SALESREPORT_LOGGING_LEVEL=debug
//	SALESREPORT_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Paths
//
// ResolvePaths turns the configured input and output into absolute paths and
// derives the temporary file the workbook is staged in before it is renamed
// over the output.
package config
