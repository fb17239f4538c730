// Package memory implements the ledger repository as a mutex-guarded
// in-process collection. This is the system's native store; the sqlite
// package provides the durable alternative behind the same interface.
package memory

import (
	"context"
	"sync"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/ecmpro/changeledger/internal/repository"
)

// LedgerRepository holds the committed collection in insertion order,
// newest first. All reads and writes copy, so callers never alias the
// stored records.
type LedgerRepository struct {
	mu      sync.RWMutex
	records []ecn.Record
}

// NewLedgerRepository creates an empty in-memory ledger.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// Insert prepends a record.
func (r *LedgerRepository) Insert(_ context.Context, rec *ecn.Record) error {
	if rec == nil {
		return repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]ecn.Record{*rec.Clone()}, r.records...)
	return nil
}

// Get retrieves a record by ID.
func (r *LedgerRepository) Get(_ context.Context, id string) (*ecn.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].ID == id {
			return r.records[i].Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetByDocNumber retrieves a record by its serial.
func (r *LedgerRepository) GetByDocNumber(_ context.Context, docNumber string) (*ecn.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].DocNumber == docNumber {
			return r.records[i].Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

// Update replaces the record matching rec's ID in place, keeping its
// position in the collection.
func (r *LedgerRepository) Update(_ context.Context, rec *ecn.Record) error {
	if rec == nil {
		return repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == rec.ID {
			r.records[i] = *rec.Clone()
			return nil
		}
	}
	return repository.ErrNotFound
}

// Delete removes the record matching id.
func (r *LedgerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// List returns a deep copy of the collection in ledger order.
func (r *LedgerRepository) List(_ context.Context) ([]ecn.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ecn.CloneAll(r.records), nil
}

// ReplaceAll swaps the whole collection.
func (r *LedgerRepository) ReplaceAll(_ context.Context, records []ecn.Record) error {
	replacement := ecn.CloneAll(records)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = replacement
	return nil
}

// ContainsDocNumber reports whether any record carries the serial.
func (r *LedgerRepository) ContainsDocNumber(_ context.Context, docNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].DocNumber == docNumber {
			return true, nil
		}
	}
	return false, nil
}
