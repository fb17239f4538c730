package ecn

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date form used everywhere in the model.
const DateLayout = "2006-01-02"

// Today returns the current calendar date as a model date string.
func Today() string {
	return time.Now().Format(DateLayout)
}

// NewDocNumber generates a human-readable serial in the form
// ECN-YYYYMMDD-NNN. The 3-digit suffix is random; uniqueness against an
// existing ledger is the inserting caller's concern.
func NewDocNumber() string {
	return fmt.Sprintf("ECN-%s-%03d", time.Now().Format("20060102"), rand.IntN(1000))
}

// DefaultReviewers seeds the two sign-off roles every new record starts
// with.
func DefaultReviewers() []Reviewer {
	today := Today()
	return []Reviewer{
		{ID: uuid.NewString(), Role: "Quality", Date: today},
		{ID: uuid.NewString(), Role: "Manufacturing Engineering", Date: today},
	}
}

// DefaultAffectedFiles seeds the five mandatory engineering documents.
func DefaultAffectedFiles() []AffectedFile {
	names := []string{
		"Product Drawing",
		"Process Flow Diagram (PFD)",
		"Process FMEA (PFMEA)",
		"Control Plan (CP)",
		"Work Instruction (WI)",
	}
	files := make([]AffectedFile, 0, len(names))
	for _, name := range names {
		files = append(files, AffectedFile{Name: name, Required: true, Status: FilePending})
	}
	return files
}

// NewRecord allocates a fresh in-progress record with stage-1 defaults.
func NewRecord() *Record {
	return &Record{
		ID:            uuid.NewString(),
		DocNumber:     NewDocNumber(),
		Status:        StatusInitiated,
		Source:        SourceInternal,
		Category:      []string{},
		Purpose:       []string{},
		ApplyDate:     Today(),
		Reviewers:     DefaultReviewers(),
		AffectedFiles: DefaultAffectedFiles(),
		TrialResult:   TrialPending,
		Attachments:   []Attachment{},
	}
}

// Clone returns a deep copy. Nested collections are copied so mutations
// on either side never leak across. slices.Clone preserves the
// nil-versus-empty distinction, so empty collections keep serializing
// as [] rather than null.
func (r *Record) Clone() *Record {
	out := *r
	out.Category = slices.Clone(r.Category)
	out.Purpose = slices.Clone(r.Purpose)
	out.Reviewers = slices.Clone(r.Reviewers)
	out.AffectedFiles = slices.Clone(r.AffectedFiles)
	out.Attachments = slices.Clone(r.Attachments)
	return &out
}

// CloneAll deep-copies a record sequence preserving order.
func CloneAll(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for i := range records {
		out = append(out, *records[i].Clone())
	}
	return out
}
