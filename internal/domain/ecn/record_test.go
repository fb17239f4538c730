package ecn_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_Defaults(t *testing.T) {
	rec := ecn.NewRecord()

	require.NotEmpty(t, rec.ID)
	require.Regexp(t, regexp.MustCompile(`^ECN-\d{8}-\d{3}$`), rec.DocNumber)
	require.Equal(t, ecn.StatusInitiated, rec.Status)
	require.Equal(t, ecn.SourceInternal, rec.Source)
	require.Equal(t, ecn.TrialPending, rec.TrialResult)
	require.False(t, rec.CustomerApprovalRequired)
	require.Empty(t, rec.Attachments)
	require.Equal(t, ecn.Today(), rec.ApplyDate)

	require.Len(t, rec.Reviewers, 2)
	require.Equal(t, "Quality", rec.Reviewers[0].Role)
	require.Equal(t, "Manufacturing Engineering", rec.Reviewers[1].Role)
	require.Empty(t, rec.Reviewers[0].Name)
	require.NotEqual(t, rec.Reviewers[0].ID, rec.Reviewers[1].ID)

	require.Len(t, rec.AffectedFiles, 5)
	for _, f := range rec.AffectedFiles {
		require.True(t, f.Required)
		require.Equal(t, ecn.FilePending, f.Status)
	}
	require.Equal(t, "Product Drawing", rec.AffectedFiles[0].Name)
}

func TestNewRecord_UniqueIDs(t *testing.T) {
	a := ecn.NewRecord()
	b := ecn.NewRecord()
	require.NotEqual(t, a.ID, b.ID)
}

func TestClone_Isolation(t *testing.T) {
	rec := ecn.NewRecord()
	rec.Attachments = append(rec.Attachments, ecn.Attachment{ID: "a1", Stage: 1, FileName: "report.pdf"})

	cp := rec.Clone()
	cp.Title = "changed"
	cp.Reviewers[0].Name = "someone"
	cp.AffectedFiles[0].Status = ecn.FileUpdated
	cp.Attachments[0].FileName = "other.pdf"

	require.Empty(t, rec.Title)
	require.Empty(t, rec.Reviewers[0].Name)
	require.Equal(t, ecn.FilePending, rec.AffectedFiles[0].Status)
	require.Equal(t, "report.pdf", rec.Attachments[0].FileName)
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ecn.Record)
		wantErr bool
	}{
		{"fresh record", func(*ecn.Record) {}, false},
		{"missing id", func(r *ecn.Record) { r.ID = "  " }, true},
		{"bad status", func(r *ecn.Record) { r.Status = "OPEN" }, true},
		{"bad trial result", func(r *ecn.Record) { r.TrialResult = "MAYBE" }, true},
		{"empty trial result tolerated", func(r *ecn.Record) { r.TrialResult = "" }, false},
		{"bad file status", func(r *ecn.Record) { r.AffectedFiles[0].Status = "DONE" }, true},
		{"attachment stage out of range", func(r *ecn.Record) {
			r.Attachments = []ecn.Attachment{{ID: "a", Stage: 8}}
		}, true},
		{"negative trial quantity", func(r *ecn.Record) { r.TrialQuantity = -1 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := ecn.NewRecord()
			tc.mutate(rec)
			err := ecn.ValidateShape(rec)
			if tc.wantErr {
				require.ErrorIs(t, err, ecn.ErrNotRecordShaped)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplyPatch_MergesOnlyNamedFields(t *testing.T) {
	rec := ecn.NewRecord()
	rec.Title = "original title"
	rec.Approver = "Chief Engineer"

	updated, err := ecn.ApplyPatch(rec, map[string]any{
		"title":  "revised title",
		"status": string(ecn.StatusRejected),
	})
	require.NoError(t, err)
	require.Equal(t, "revised title", updated.Title)
	require.Equal(t, ecn.StatusRejected, updated.Status)
	require.Equal(t, "Chief Engineer", updated.Approver)
	require.Len(t, updated.AffectedFiles, 5)

	// original untouched
	require.Equal(t, "original title", rec.Title)
	require.Equal(t, ecn.StatusInitiated, rec.Status)
}

func TestApplyPatch_RejectsIdentityChange(t *testing.T) {
	rec := ecn.NewRecord()
	_, err := ecn.ApplyPatch(rec, map[string]any{"id": "other"})
	require.ErrorIs(t, err, ecn.ErrImmutableField)
	_, err = ecn.ApplyPatch(rec, map[string]any{"docNumber": "ECN-20200101-000"})
	require.ErrorIs(t, err, ecn.ErrImmutableField)

	// restating the current identity is harmless
	_, err = ecn.ApplyPatch(rec, map[string]any{"id": rec.ID, "title": "t"})
	require.NoError(t, err)
}

func TestApplyPatch_RejectsUnknownAndInvalid(t *testing.T) {
	rec := ecn.NewRecord()

	_, err := ecn.ApplyPatch(rec, map[string]any{"severity": "high"})
	require.Error(t, err)

	_, err = ecn.ApplyPatch(rec, map[string]any{"status": "UNHEARD_OF"})
	require.ErrorIs(t, err, ecn.ErrInvalidValue)

	_, err = ecn.ApplyPatch(rec, map[string]any{"trialQuantity": -3})
	require.ErrorIs(t, err, ecn.ErrInvalidValue)
}

func TestRecord_JSONFieldNames(t *testing.T) {
	rec := ecn.NewRecord()
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, field := range []string{
		"id", "docNumber", "title", "source", "category", "purpose",
		"applicant", "receiver", "applyDate", "implementationDate", "status",
		"beforeChange", "afterChange", "feasibilityResult", "feasibilityDate",
		"technicalImpact", "costImpact", "reviewers", "approver",
		"customerApprovalRequired", "customerApprovalResult", "affectedFiles",
		"trialDate", "trialQuantity", "trialResult", "trialVerificationNote",
		"attachments",
	} {
		require.Contains(t, m, field)
	}
}
