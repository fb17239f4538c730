package ledger

import "errors"

var (
	// ErrRecordNotFound indicates the record doesn't exist in the ledger.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidRecord indicates the record failed shape validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDocNumberSpace indicates doc-number regeneration gave up.
	ErrDocNumberSpace = errors.New("doc number space exhausted for today")
)
