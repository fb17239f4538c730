package ecn

import (
	"fmt"
	"strings"
)

func validStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusInitiated, StatusFeasibility, StatusReview,
		StatusCustomerApp, StatusImplementation, StatusTrial,
		StatusCompleted, StatusRejected:
		return true
	}
	return false
}

func validTrialResult(t TrialResult) bool {
	switch t {
	case TrialPass, TrialFail, TrialPending:
		return true
	}
	return false
}

func validFileStatus(f FileStatus) bool {
	switch f {
	case FilePending, FileUpdated, FileNotApplicable:
		return true
	}
	return false
}

func validSource(s Source) bool {
	switch s {
	case SourceCustomer, SourceSupplier, SourceInternal, SourceOther:
		return true
	}
	return false
}

// ValidCategory reports membership in the closed category set.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ValidateShape checks that a decoded value qualifies as a record: id
// present, and every enum-typed field (where set) a member of its closed
// set. Optional text fields may be empty; that is the renderer's problem,
// not the importer's.
func ValidateShape(r *Record) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrNotRecordShaped)
	}
	if !validStatus(r.Status) {
		return fmt.Errorf("%w: status %q", ErrNotRecordShaped, r.Status)
	}
	if r.TrialResult != "" && !validTrialResult(r.TrialResult) {
		return fmt.Errorf("%w: trialResult %q", ErrNotRecordShaped, r.TrialResult)
	}
	if r.Source != "" && !validSource(r.Source) {
		return fmt.Errorf("%w: source %q", ErrNotRecordShaped, r.Source)
	}
	if r.TrialQuantity < 0 {
		return fmt.Errorf("%w: negative trialQuantity", ErrNotRecordShaped)
	}
	for i, f := range r.AffectedFiles {
		if f.Status != "" && !validFileStatus(f.Status) {
			return fmt.Errorf("%w: affectedFiles[%d] status %q", ErrNotRecordShaped, i, f.Status)
		}
	}
	for i, a := range r.Attachments {
		if a.Stage < 1 || a.Stage > 7 {
			return fmt.Errorf("%w: attachments[%d] stage %d", ErrNotRecordShaped, i, a.Stage)
		}
	}
	return nil
}
