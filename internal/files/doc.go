// Package files provides the file system operations used to publish the
// report workbook.
//
// The workbook is first written to a temp file in the output directory and
// then moved over the output path, so a failed run never leaves a partial
// workbook behind:
//
//	m := files.NewManager(logger)
//	tmp, err := m.CreateTemp(outputDir, ".report.*.xlsx")
//	// ... write tmp ...
//	err = m.MoveFile(tmp, outputPath)
package files
