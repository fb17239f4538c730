package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/ecmpro/changeledger/internal/repository"
)

// LedgerRepository implements repository.LedgerRepository for SQLite
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Insert prepends a record to the ledger.
func (r *LedgerRepository) Insert(ctx context.Context, rec *ecn.Record) error {
	if rec == nil {
		return repository.ErrInvalidInput
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	query := `
		INSERT INTO ledger (id, doc_number, title, status, apply_date, position, payload)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MIN(position), 1) - 1 FROM ledger), ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.DocNumber,
		rec.Title,
		rec.Status,
		rec.ApplyDate,
		payload,
	); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID
func (r *LedgerRepository) Get(ctx context.Context, id string) (*ecn.Record, error) {
	return r.getOne(ctx, `SELECT payload FROM ledger WHERE id = ?`, id)
}

// GetByDocNumber retrieves a record by its serial
func (r *LedgerRepository) GetByDocNumber(ctx context.Context, docNumber string) (*ecn.Record, error) {
	return r.getOne(ctx, `SELECT payload FROM ledger WHERE doc_number = ? LIMIT 1`, docNumber)
}

func (r *LedgerRepository) getOne(ctx context.Context, query string, arg any) (*ecn.Record, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var rec ecn.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}

// Update replaces the stored record matching rec's ID, keeping position.
func (r *LedgerRepository) Update(ctx context.Context, rec *ecn.Record) error {
	if rec == nil {
		return repository.ErrInvalidInput
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	query := `
		UPDATE ledger
		SET doc_number = ?, title = ?, status = ?, apply_date = ?, payload = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.DocNumber,
		rec.Title,
		rec.Status,
		rec.ApplyDate,
		payload,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the record matching id
func (r *LedgerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ledger WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns the collection in ledger order, newest first
func (r *LedgerRepository) List(ctx context.Context) ([]ecn.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM ledger ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := []ecn.Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var rec ecn.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps the whole collection inside one transaction, so a
// failure leaves the prior ledger untouched.
func (r *LedgerRepository) ReplaceAll(ctx context.Context, records []ecn.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger`); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger (id, doc_number, title, status, apply_date, position, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.DocNumber, rec.Title, rec.Status, rec.ApplyDate, i, payload,
		); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	return nil
}

// ContainsDocNumber reports whether any record carries the serial
func (r *LedgerRepository) ContainsDocNumber(ctx context.Context, docNumber string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM ledger WHERE doc_number = ?`, docNumber).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check doc number: %w", err)
	}
	return count > 0, nil
}
