package export

import "errors"

// Errors returned by the readers. Match them with errors.Is; the wrapped
// message names the offending file.
var (
	// ErrMissingFile means an expected export file or directory is absent.
	ErrMissingFile = errors.New("missing export file")

	// ErrDecode means a JSON document does not have the expected shape.
	ErrDecode = errors.New("decode error")

	// ErrTabularRow means a messages.csv row could not be read as a message.
	ErrTabularRow = errors.New("tabular row error")
)
