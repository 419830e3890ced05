// Package services implements the report build pipeline.
//
// ReportService runs one build as a sequence of stages, each with its own
// span when telemetry is enabled:
//
//  1. validate: check the input file and the output location
//  2. load: read the sales records
//  3. aggregate: compute the manager, category, product and monthly tables
//  4. write: render the workbook to a temp file next to the output
//  5. tables: optionally write the aggregate tables as CSV
//  6. commit: move the temp file over the output path
//
// A failure before commit removes the temp file and leaves any existing
// output untouched.
//
// Errors are returned as *errors.AppError values so the caller can map them
// to an exit status. The service never logs a failure itself; the caller
// logs it once.
package services
