package wizard

import "errors"

var (
	// ErrTitleRequired indicates submission was refused for a blank title.
	ErrTitleRequired = errors.New("title required to submit")
	// ErrNotFinalStage indicates submit was called before stage 7.
	ErrNotFinalStage = errors.New("submit only available at the final stage")
	// ErrInvalidStage indicates a stage number outside 1..7.
	ErrInvalidStage = errors.New("stage must be between 1 and 7")
	// ErrReviewerNotFound indicates no reviewer row carries the id.
	ErrReviewerNotFound = errors.New("reviewer not found")
	// ErrAttachmentNotFound indicates no attachment carries the id.
	ErrAttachmentNotFound = errors.New("attachment not found")
	// ErrFileIndexOutOfRange indicates an affected-file index miss.
	ErrFileIndexOutOfRange = errors.New("affected file index out of range")
	// ErrUnknownReviewerField indicates a reviewer field outside the row's domain.
	ErrUnknownReviewerField = errors.New("unknown reviewer field")
)
