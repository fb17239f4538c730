package mocks

import (
	"context"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/stretchr/testify/mock"
)

// LedgerRepository is a mock for repository.LedgerRepository.
type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Insert(ctx context.Context, rec *ecn.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *LedgerRepository) Get(ctx context.Context, id string) (*ecn.Record, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*ecn.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerRepository) GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error) {
	args := m.Called(ctx, docNumber)
	if rec, ok := args.Get(0).(*ecn.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerRepository) Update(ctx context.Context, rec *ecn.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *LedgerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LedgerRepository) List(ctx context.Context) ([]ecn.Record, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]ecn.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerRepository) ReplaceAll(ctx context.Context, records []ecn.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *LedgerRepository) ContainsDocNumber(ctx context.Context, docNumber string) (bool, error) {
	args := m.Called(ctx, docNumber)
	return args.Bool(0), args.Error(1)
}
