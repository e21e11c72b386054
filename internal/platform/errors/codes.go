// Package errors provides coded errors shared across the application.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument reports malformed caller input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeNotFound reports a lookup that matched nothing.
	CodeNotFound Code = "NOT_FOUND"

	// CodeDuplicateName reports a student name uniqueness violation.
	CodeDuplicateName Code = "DUPLICATE_NAME"

	// CodeStorage reports a fault in the underlying database engine.
	CodeStorage Code = "STORAGE"

	// CodeFileIO reports a CSV file read or write failure.
	CodeFileIO Code = "FILE_IO"

	// CodeEncodingUnknown reports an import source whose text encoding
	// could not be determined.
	CodeEncodingUnknown Code = "ENCODING_UNKNOWN"

	// CodeImportConflict reports an import rejected as a whole because of
	// duplicate student names.
	CodeImportConflict Code = "IMPORT_CONFLICT"
)
