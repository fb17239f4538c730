package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/ecmpro/changeledger/internal/repository"
	"github.com/ecmpro/changeledger/internal/snapshot"
)

// docNumberAttempts bounds regeneration when an insert collides with an
// existing doc number. The suffix space is 1000 per day.
const docNumberAttempts = 1000

// Service handles ledger business logic over the committed collection.
type Service struct {
	ledger Repository
	logger *slog.Logger
}

// NewService creates a new ledger service.
func NewService(ledger Repository, logger *slog.Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// Insert commits a record at the front of the ledger. Doc numbers are
// kept unique within the ledger: on collision the 3-digit suffix is
// regenerated before inserting. Returns the record as committed.
func (s *Service) Insert(ctx context.Context, rec *ecn.Record) (*ecn.Record, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if err := ecn.ValidateShape(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	committed := rec.Clone()
	for attempt := 0; ; attempt++ {
		taken, err := s.ledger.ContainsDocNumber(ctx, committed.DocNumber)
		if err != nil {
			return nil, fmt.Errorf("checking doc number: %w", err)
		}
		if !taken {
			break
		}
		if attempt >= docNumberAttempts {
			return nil, ErrDocNumberSpace
		}
		committed.DocNumber = ecn.NewDocNumber()
	}

	if err := s.ledger.Insert(ctx, committed); err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("record committed", "id", committed.ID, "doc_number", committed.DocNumber)
	}
	return committed, nil
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, id string) (*ecn.Record, error) {
	rec, err := s.ledger.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// GetByDocNumber returns a record by its human-readable serial.
func (s *Service) GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error) {
	rec, err := s.ledger.GetByDocNumber(ctx, docNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// List returns the collection in ledger order, newest first.
func (s *Service) List(ctx context.Context) ([]ecn.Record, error) {
	return s.ledger.List(ctx)
}

// Update merges named fields into the matching record. Fields not
// mentioned keep their values; a missing id is an explicit not-found,
// and repeating a successful call has no further effect.
func (s *Service) Update(ctx context.Context, id string, patch map[string]any) (*ecn.Record, error) {
	current, err := s.ledger.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("loading record: %w", err)
	}

	updated, err := ecn.ApplyPatch(current, patch)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("updating record: %w", err)
	}
	return updated, nil
}

// Delete removes the matching record. Irreversible; the caller is
// expected to have confirmed with the operator. A missing id is an
// explicit not-found and leaves the ledger untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ledger.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("deleting record: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("record deleted", "id", id)
	}
	return nil
}

// ReplaceAll swaps the whole collection in one shot. Every record is
// validated before anything is applied; the prior collection survives
// any failure.
func (s *Service) ReplaceAll(ctx context.Context, records []ecn.Record) error {
	for i := range records {
		if err := ecn.ValidateShape(&records[i]); err != nil {
			return fmt.Errorf("%w: element %d: %v", ErrInvalidRecord, i, err)
		}
	}
	if err := s.ledger.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("ledger replaced", "records", len(records))
	}
	return nil
}

// ExportSnapshot serializes a deep, order-preserving copy of the full
// collection in the import/export format.
func (s *Service) ExportSnapshot(ctx context.Context) ([]byte, error) {
	records, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return snapshot.Encode(records)
}

// ImportSnapshot parses an export payload and atomically replaces the
// collection with it. Malformed payloads reject without partial effect.
// Returns the number of records imported.
func (s *Service) ImportSnapshot(ctx context.Context, data []byte) (int, error) {
	records, err := snapshot.Decode(data)
	if err != nil {
		return 0, err
	}
	if err := s.ReplaceAll(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Summary aggregates lifecycle counts across the collection.
func (s *Service) Summary(ctx context.Context) (ecn.Summary, error) {
	records, err := s.ledger.List(ctx)
	if err != nil {
		return ecn.Summary{}, fmt.Errorf("listing records: %w", err)
	}
	sum := ecn.Summary{Total: len(records)}
	for i := range records {
		switch records[i].Status {
		case ecn.StatusCompleted:
			sum.Completed++
		case ecn.StatusRejected:
			sum.Rejected++
		default:
			sum.Pending++
		}
	}
	return sum, nil
}
