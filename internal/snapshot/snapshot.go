// Package snapshot implements the ledger export format: a JSON array of
// records with the model's exact field names and literal enum values.
// Array order is significant and survives the encode/decode round trip.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
)

// ErrNotArray indicates the import payload is not a record sequence.
var ErrNotArray = errors.New("snapshot must be a JSON array of records")

// Encode serializes the collection in export form.
func Encode(records []ecn.Record) ([]byte, error) {
	if records == nil {
		records = []ecn.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses an import payload. The payload must be an array and every
// element must be record-shaped; the first offending element aborts the
// whole decode with its index, so a caller never partially applies.
func Decode(data []byte) ([]ecn.Record, error) {
	// A JSON null unmarshals into a nil slice without error; only a real
	// array qualifies.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, describePayload(trimmed))
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}

	records := make([]ecn.Record, 0, len(elements))
	for i, element := range elements {
		rec, err := ecn.DecodeStrict(element)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if err := ecn.ValidateShape(rec); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

func describePayload(trimmed []byte) string {
	if len(trimmed) == 0 {
		return "empty input"
	}
	switch trimmed[0] {
	case '{':
		return "an object"
	case '"':
		return "a string"
	case 'n':
		return "null"
	default:
		return fmt.Sprintf("%q", trimmed[0])
	}
}

// FileName names an export artifact after the current date.
func FileName() string {
	return fmt.Sprintf("ECN_Ledger_%s.json", ecn.Today())
}
