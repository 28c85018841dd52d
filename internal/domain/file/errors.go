package file

import "errors"

var (
	// ErrEmptyKey is returned when an operation is called without an object key.
	ErrEmptyKey = errors.New("file key is required")

	// ErrEmptyFilename is returned when an upload has no filename.
	ErrEmptyFilename = errors.New("filename is required")

	// ErrObjectNotFound is matched by store errors for missing objects.
	ErrObjectNotFound = errors.New("object not found")
)
