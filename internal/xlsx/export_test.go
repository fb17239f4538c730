package xlsx

import (
	"bytes"
	"testing"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport_RowsMatchRecords(t *testing.T) {
	first := ecn.NewRecord()
	first.Title = "Housing draft angle"
	first.Applicant = "A. Ruiz"
	first.Category = []string{"Dimension", "Tooling"}
	first.Status = ecn.StatusReview

	second := ecn.NewRecord()
	second.Title = "Connector plating change"
	second.Status = ecn.StatusCompleted
	second.TrialResult = ecn.TrialPass

	data, err := Export([]ecn.Record{*first, *second})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "Doc Number", rows[0][0])
	require.Equal(t, "Status", rows[0][5])

	require.Equal(t, first.DocNumber, rows[1][0])
	require.Equal(t, "Housing draft angle", rows[1][1])
	require.Equal(t, "Dimension, Tooling", rows[1][3])
	require.Equal(t, "REVIEW", rows[1][5])

	require.Equal(t, second.DocNumber, rows[2][0])
	require.Equal(t, "COMPLETED", rows[2][5])
	require.Equal(t, "PASS", rows[2][7])
}

func TestExport_EmptyLedger(t *testing.T) {
	data, err := Export(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NotContains(t, f.GetSheetList(), "Sheet1")
}

func TestFileName(t *testing.T) {
	require.Contains(t, FileName(), "ECN_Ledger_")
	require.Contains(t, FileName(), ".xlsx")
}
