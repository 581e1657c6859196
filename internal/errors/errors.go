// Package errors defines the error taxonomy for the trip processing pipeline.
//
// Three failure classes exist:
//   - RefDataError: reference data (zones, weather) is missing or malformed.
//     Fatal for the whole run; there are no sound defaults for these tables.
//   - FileError: a single monthly trip file could not be read or parsed.
//     Recoverable; the file is skipped and the run continues.
//   - SchemaError: a required column is absent for the detected input mode.
//     Recoverable; the file is skipped and the run continues.
package errors

import (
	"errors"
	"fmt"
)

// RefDataError indicates the zone or weather reference table could not be
// loaded. It aborts the run.
type RefDataError struct {
	Path string
	Err  error
}

func (e *RefDataError) Error() string {
	return fmt.Sprintf("reference data %s: %v", e.Path, e.Err)
}

func (e *RefDataError) Unwrap() error { return e.Err }

// NewRefDataError wraps err as a fatal reference-data failure.
func NewRefDataError(path string, err error) *RefDataError {
	return &RefDataError{Path: path, Err: err}
}

// FileError indicates a single trip file failed to open or parse. The caller
// logs it and moves on to the next file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("trip file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// NewFileError wraps err as a per-file read failure.
func NewFileError(path string, err error) *FileError {
	return &FileError{Path: path, Err: err}
}

// SchemaError indicates a column required by the detected input mode is
// missing from a file.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("trip file %s: required column %q missing", e.Path, e.Column)
}

// NewSchemaError reports a missing required column for path.
func NewSchemaError(path, column string) *SchemaError {
	return &SchemaError{Path: path, Column: column}
}

// IsFatal reports whether err must abort the whole run rather than skip the
// current file.
func IsFatal(err error) bool {
	var refErr *RefDataError
	return errors.As(err, &refErr)
}

// IsRecoverable reports whether err is a per-file failure that the run
// isolates by skipping the file.
func IsRecoverable(err error) bool {
	var fileErr *FileError
	var schemaErr *SchemaError
	return errors.As(err, &fileErr) || errors.As(err, &schemaErr)
}
