package errors

import "errors"

// Process exit codes for the CLI
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error to the process exit status.
// Every failure is fatal, config mistakes are reported as usage errors.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsType(err, ErrTypeConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Fields flattens an error into slog key/value pairs
func Fields(err error) []any {
	if err == nil {
		return nil
	}
	fields := []any{"error", err.Error()}
	if t := TypeOf(err); t != "" {
		fields = append(fields, "error_type", string(t))
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		for k, v := range appErr.Context {
			fields = append(fields, k, v)
		}
	}
	return fields
}
