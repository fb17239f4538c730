package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/google/uuid"
)

// Stage bounds of the approval workflow.
const (
	FirstStage = 1
	FinalStage = 7
)

// Ledger receives the finished record at submission.
type Ledger interface {
	Insert(ctx context.Context, rec *ecn.Record) (*ecn.Record, error)
}

// Engine drives the seven-stage wizard over exactly one in-progress
// record. Stages advance and retreat one at a time with no skipping, and
// no stage discards entered data. Every mutation either fully applies or
// leaves the draft untouched.
type Engine struct {
	mu     sync.Mutex
	stage  int
	draft  *ecn.Record
	ledger Ledger
	logger *slog.Logger
}

// NewEngine creates an engine holding a fresh stage-1 record.
func NewEngine(ledger Ledger, logger *slog.Logger) *Engine {
	return &Engine{
		stage:  FirstStage,
		draft:  ecn.NewRecord(),
		ledger: ledger,
		logger: logger,
	}
}

// Stage returns the current stage number.
func (e *Engine) Stage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

// Draft returns a deep copy of the in-progress record. The engine keeps
// ownership of the original until Submit hands it to the ledger.
func (e *Engine) Draft() *ecn.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Advance moves one stage forward. A no-op at the final stage.
func (e *Engine) Advance() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage < FinalStage {
		e.stage++
	}
	return e.stage
}

// Retreat moves one stage back without discarding entered data. A no-op
// at stage 1.
func (e *Engine) Retreat() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage > FirstStage {
		e.stage--
	}
	return e.stage
}

// UpdateField merges one named field into the draft. The value only has
// to match the field's declared domain; requiredness is checked at
// submission, not here. Toggling customerApprovalRequired off preserves
// any customerApprovalResult already entered.
func (e *Engine) UpdateField(name string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	updated, err := ecn.SetField(e.draft, name, value)
	if err != nil {
		return err
	}
	e.draft = updated
	return nil
}

// AddAttachment records a file collected under the named stage.
func (e *Engine) AddAttachment(stage int, fileName, fileType string) (ecn.Attachment, error) {
	if stage < FirstStage || stage > FinalStage {
		return ecn.Attachment{}, fmt.Errorf("%w: got %d", ErrInvalidStage, stage)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	att := ecn.Attachment{
		ID:         uuid.NewString(),
		Stage:      stage,
		FileName:   fileName,
		FileType:   fileType,
		UploadDate: ecn.Today(),
	}
	e.draft.Attachments = append(e.draft.Attachments, att)
	return att, nil
}

// RemoveAttachment removes by identity match only.
func (e *Engine) RemoveAttachment(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, att := range e.draft.Attachments {
		if att.ID == id {
			e.draft.Attachments = append(e.draft.Attachments[:i], e.draft.Attachments[i+1:]...)
			return nil
		}
	}
	return ErrAttachmentNotFound
}

// StageAttachments returns the draft attachments collected under one stage.
func (e *Engine) StageAttachments(stage int) []ecn.Attachment {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []ecn.Attachment
	for _, att := range e.draft.Attachments {
		if att.Stage == stage {
			out = append(out, att)
		}
	}
	return out
}

// AddFile appends an affected-file entry. Blank names are ignored and
// reported false.
func (e *Engine) AddFile(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.AffectedFiles = append(e.draft.AffectedFiles, ecn.AffectedFile{
		Name:     name,
		Required: true,
		Status:   ecn.FilePending,
	})
	return true
}

// RemoveFile removes the entry at index. Seeded defaults are removable
// like any other entry.
func (e *Engine) RemoveFile(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.AffectedFiles) {
		return ErrFileIndexOutOfRange
	}
	e.draft.AffectedFiles = append(e.draft.AffectedFiles[:index], e.draft.AffectedFiles[index+1:]...)
	return nil
}

// SetFileStatus updates the tracking status of one affected file.
func (e *Engine) SetFileStatus(index int, status ecn.FileStatus) error {
	switch status {
	case ecn.FilePending, ecn.FileUpdated, ecn.FileNotApplicable:
	default:
		return fmt.Errorf("%w: file status %q", ecn.ErrInvalidValue, status)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.AffectedFiles) {
		return ErrFileIndexOutOfRange
	}
	e.draft.AffectedFiles[index].Status = status
	return nil
}

// AddReviewer appends a blank sign-off row dated today.
func (e *Engine) AddReviewer() ecn.Reviewer {
	e.mu.Lock()
	defer e.mu.Unlock()
	rev := ecn.Reviewer{ID: uuid.NewString(), Date: ecn.Today()}
	e.draft.Reviewers = append(e.draft.Reviewers, rev)
	return rev
}

// RemoveReviewer removes the row with the given id.
func (e *Engine) RemoveReviewer(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, rev := range e.draft.Reviewers {
		if rev.ID == id {
			e.draft.Reviewers = append(e.draft.Reviewers[:i], e.draft.Reviewers[i+1:]...)
			return nil
		}
	}
	return ErrReviewerNotFound
}

// UpdateReviewer sets one field of one sign-off row.
func (e *Engine) UpdateReviewer(id, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.draft.Reviewers {
		if e.draft.Reviewers[i].ID != id {
			continue
		}
		switch field {
		case "role":
			e.draft.Reviewers[i].Role = value
		case "name":
			e.draft.Reviewers[i].Name = value
		case "opinion":
			e.draft.Reviewers[i].Opinion = value
		case "date":
			e.draft.Reviewers[i].Date = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownReviewerField, field)
		}
		return nil
	}
	return ErrReviewerNotFound
}

// Submit closes out the wizard. Only meaningful at the final stage and
// only with a non-blank title; on failure nothing is mutated. On success
// the record is marked COMPLETED, handed to the ledger, and the engine
// resets to a fresh stage-1 record.
func (e *Engine) Submit(ctx context.Context) (*ecn.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage != FinalStage {
		return nil, ErrNotFinalStage
	}
	if strings.TrimSpace(e.draft.Title) == "" {
		return nil, ErrTitleRequired
	}

	finished := e.draft.Clone()
	finished.Status = ecn.StatusCompleted

	committed, err := e.ledger.Insert(ctx, finished)
	if err != nil {
		return nil, fmt.Errorf("committing record: %w", err)
	}

	if e.logger != nil {
		e.logger.Info("ecn submitted", "doc_number", committed.DocNumber, "title", committed.Title)
	}

	e.draft = ecn.NewRecord()
	e.stage = FirstStage
	return committed, nil
}

// Reset discards the draft and starts a fresh stage-1 record.
func (e *Engine) Reset() *ecn.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = ecn.NewRecord()
	e.stage = FirstStage
	return e.draft.Clone()
}
