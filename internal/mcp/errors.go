package mcp

import (
	"errors"
	"fmt"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/ecmpro/changeledger/internal/domain/ledger"
	"github.com/ecmpro/changeledger/internal/domain/wizard"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ledger.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: "record not found", RecoveryHint: "Check the id or doc number with list_records"}
	case errors.Is(err, ledger.ErrDocNumberSpace):
		return &APIError{Code: "DOC_NUMBER_SPACE", Message: "no free document number today", RecoveryHint: "Retry tomorrow or remove stale records"}
	case errors.Is(err, wizard.ErrNotFinalStage):
		return &APIError{Code: "NOT_FINAL_STAGE", Message: "submission is only allowed at the final stage", RecoveryHint: "Call advance_stage until stage 7"}
	case errors.Is(err, wizard.ErrTitleRequired):
		return &APIError{Code: "TITLE_REQUIRED", Message: "the draft needs a non-blank title", RecoveryHint: "Set one with update_field"}
	case errors.Is(err, wizard.ErrInvalidStage):
		return &APIError{Code: "INVALID_STAGE", Message: "stage must be between 1 and 7"}
	case errors.Is(err, wizard.ErrReviewerNotFound):
		return &APIError{Code: "REVIEWER_NOT_FOUND", Message: "no sign-off row with that id", RecoveryHint: "Check get_draft for reviewer ids"}
	case errors.Is(err, wizard.ErrAttachmentNotFound):
		return &APIError{Code: "ATTACHMENT_NOT_FOUND", Message: "no attachment with that id", RecoveryHint: "Check get_draft for attachment ids"}
	case errors.Is(err, wizard.ErrFileIndexOutOfRange):
		return &APIError{Code: "FILE_INDEX_OUT_OF_RANGE", Message: "affected-file index out of range", RecoveryHint: "Check get_draft for the file list"}
	case errors.Is(err, wizard.ErrUnknownReviewerField):
		return &APIError{Code: "UNKNOWN_REVIEWER_FIELD", Message: "reviewer fields are role, name, opinion, and date"}
	case errors.Is(err, ecn.ErrImmutableField):
		return &APIError{Code: "IMMUTABLE_FIELD", Message: "id and docNumber cannot be changed"}
	case errors.Is(err, ecn.ErrUnknownField):
		return &APIError{Code: "UNKNOWN_FIELD", Message: "unknown record field", RecoveryHint: "Use the JSON field names from get_draft"}
	case errors.Is(err, ecn.ErrInvalidValue), errors.Is(err, ecn.ErrNotRecordShaped), errors.Is(err, ledger.ErrInvalidRecord):
		return &APIError{Code: "INVALID_VALUE", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
