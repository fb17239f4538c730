// Package xlsx renders the ledger collection as a spreadsheet for
// offline review.
package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/xuri/excelize/v2"
)

const sheet = "Ledger"

// ContentType is the XLSX MIME type.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export writes the collection, one row per record in ledger order.
func Export(records []ecn.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	headers := []string{"Doc Number", "Title", "Source", "Category", "Applicant", "Status", "Apply Date", "Trial Result"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for row, rec := range records {
		values := []any{
			rec.DocNumber,
			rec.Title,
			string(rec.Source),
			strings.Join(rec.Category, ", "),
			rec.Applicant,
			string(rec.Status),
			rec.ApplyDate,
			string(rec.TrialResult),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName names the workbook artifact after the current date.
func FileName() string {
	return fmt.Sprintf("ECN_Ledger_%s.xlsx", ecn.Today())
}
