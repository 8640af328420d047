package library

import "errors"

var (
	// ErrParse reports content that does not match the required extraction
	// rule for its entity kind. Fatal for constructing that one entity;
	// folder scans catch it and count the file as unknown instead of
	// aborting the load.
	ErrParse = errors.New("content does not match extraction rules")

	// ErrDuplicateBookID reports two files claiming the same book id.
	// Always fatal: load stops rather than silently overwriting.
	ErrDuplicateBookID = errors.New("duplicate book id")

	// ErrNoFolder reports a persistence operation on a detached library.
	ErrNoFolder = errors.New("library has no folder")

	// ErrCheckFailed reports a template self-check whose rendered content
	// did not re-parse to the original fields.
	ErrCheckFailed = errors.New("templates are not consistent with extraction rules")
)
