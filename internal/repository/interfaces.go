package repository

import (
	"context"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
)

// LedgerRepository manages the committed record collection. The
// collection is ordered newest-first; Insert prepends and List returns
// records in collection order. Implementations return deep copies so
// callers never share memory with the store, and every operation fully
// applies or leaves the collection untouched.
type LedgerRepository interface {
	Insert(ctx context.Context, rec *ecn.Record) error
	Get(ctx context.Context, id string) (*ecn.Record, error)
	GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error)
	Update(ctx context.Context, rec *ecn.Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]ecn.Record, error)
	ReplaceAll(ctx context.Context, records []ecn.Record) error
	ContainsDocNumber(ctx context.Context, docNumber string) (bool, error)
}
