package ecn

import "errors"

var (
	// ErrNotRecordShaped indicates a value cannot pass for a record.
	ErrNotRecordShaped = errors.New("value is not record-shaped")
	// ErrImmutableField indicates a patch tried to change id or docNumber.
	ErrImmutableField = errors.New("id and docNumber are immutable")
	// ErrUnknownField indicates a field name outside the record's domain.
	ErrUnknownField = errors.New("unknown record field")
	// ErrInvalidValue indicates a value outside the target field's domain.
	ErrInvalidValue = errors.New("value outside field domain")
)
