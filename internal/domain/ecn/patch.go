package ecn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ApplyPatch merges named fields into a copy of the record and returns
// the result. The original is never touched, fields not mentioned keep
// their values, and identity fields cannot change. Field names are the
// JSON names of the record.
func ApplyPatch(r *Record, patch map[string]any) (*Record, error) {
	if v, ok := patch["id"]; ok && v != r.ID {
		return nil, ErrImmutableField
	}
	if v, ok := patch["docNumber"]; ok && v != r.DocNumber {
		return nil, ErrImmutableField
	}

	base, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	for name, value := range patch {
		merged[name] = value
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding merge: %w", err)
	}
	updated, err := DecodeStrict(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateShape(updated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return updated, nil
}

// SetField merges a single named field. The value must already be in the
// field's declared domain; anything further (stage gating, requiredness)
// is the caller's concern.
func SetField(r *Record, name string, value any) (*Record, error) {
	updated, err := ApplyPatch(r, map[string]any{name: value})
	if err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		return nil, err
	}
	return updated, nil
}

// DecodeStrict decodes one record rejecting unknown fields.
func DecodeStrict(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRecordShaped, err)
	}
	return &rec, nil
}
