package ledger

import (
	"context"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
)

// Repository provides persistence for the committed record collection.
type Repository interface {
	Insert(ctx context.Context, rec *ecn.Record) error
	Get(ctx context.Context, id string) (*ecn.Record, error)
	GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error)
	Update(ctx context.Context, rec *ecn.Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]ecn.Record, error)
	ReplaceAll(ctx context.Context, records []ecn.Record) error
	ContainsDocNumber(ctx context.Context, docNumber string) (bool, error)
}
