package mcp

import (
	"context"
	"fmt"

	"github.com/ecmpro/changeledger/internal/domain/document"
	"github.com/ecmpro/changeledger/internal/domain/ecn"
	"github.com/ecmpro/changeledger/internal/domain/wizard"
	"github.com/ecmpro/changeledger/internal/snapshot"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type emptyInput struct{}

// DraftState pairs the wizard position with the in-progress record.
type DraftState struct {
	Stage  int         `json:"stage"`
	Record *ecn.Record `json:"record"`
}

type updateFieldInput struct {
	Field string `json:"field" jsonschema:"JSON field name on the record, e.g. title or applyDate"`
	Value any    `json:"value" jsonschema:"New value, matching the field's declared type"`
}

type reviewerIDInput struct {
	ID string `json:"id" jsonschema:"Reviewer row id"`
}

type updateReviewerInput struct {
	ID    string `json:"id" jsonschema:"Reviewer row id"`
	Field string `json:"field" jsonschema:"One of role, name, opinion, date"`
	Value string `json:"value"`
}

type addFileInput struct {
	Name string `json:"name" jsonschema:"Document name to track, e.g. Control Plan (CP)"`
}

type addFileOutput struct {
	Added  bool        `json:"added"`
	Record *ecn.Record `json:"record"`
}

type fileIndexInput struct {
	Index int `json:"index" jsonschema:"Zero-based position in affectedFiles"`
}

type setFileStatusInput struct {
	Index  int    `json:"index" jsonschema:"Zero-based position in affectedFiles"`
	Status string `json:"status" jsonschema:"PENDING, UPDATED, or NOT_APPLICABLE"`
}

type addAttachmentInput struct {
	Stage    int    `json:"stage" jsonschema:"Wizard stage the file belongs to, 1 through 7"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type,omitempty" jsonschema:"MIME type or extension, informational only"`
}

type attachmentIDInput struct {
	ID string `json:"id" jsonschema:"Attachment id"`
}

type stageInput struct {
	Stage int `json:"stage" jsonschema:"Wizard stage, 1 through 7"`
}

type stageAttachmentsOutput struct {
	Stage       int              `json:"stage"`
	Attachments []ecn.Attachment `json:"attachments"`
}

type recordOutput struct {
	Record *ecn.Record `json:"record"`
}

type listRecordsOutput struct {
	Records []ecn.Record `json:"records"`
}

type getRecordInput struct {
	ID        string `json:"id,omitempty" jsonschema:"Record id (omit when using doc_number)"`
	DocNumber string `json:"doc_number,omitempty" jsonschema:"Document number, e.g. ECN-20260829-042"`
}

type updateRecordInput struct {
	ID     string         `json:"id" jsonschema:"Record id"`
	Fields map[string]any `json:"fields" jsonschema:"Partial record, JSON field names to new values"`
}

type recordIDInput struct {
	ID string `json:"id" jsonschema:"Record id"`
}

type statusOutput struct {
	Status string `json:"status"`
}

type snapshotOutput struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

type importSnapshotInput struct {
	Content string `json:"content" jsonschema:"Snapshot JSON, a top-level array of records"`
}

type importSnapshotOutput struct {
	Imported int `json:"imported"`
}

type renderDocumentInput struct {
	DocNumber string `json:"doc_number" jsonschema:"Document number of a ledger record"`
}

type renderDocumentOutput struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	ws := svc.Wizard
	ls := svc.Ledger

	// Wizard lifecycle
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_ecn",
		Description: "Discard any in-progress draft and start a fresh ECN at stage 1",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, DraftState, error) {
		rec := ws.Reset()
		return nil, DraftState{Stage: ws.Stage(), Record: rec}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_draft",
		Description: "Get the current wizard stage and the in-progress record",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, DraftState, error) {
		return nil, DraftState{Stage: ws.Stage(), Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "advance_stage",
		Description: "Move the wizard one stage forward (no-op at stage 7)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, DraftState, error) {
		stage := ws.Advance()
		return nil, DraftState{Stage: stage, Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "retreat_stage",
		Description: "Move the wizard one stage back without discarding entered data (no-op at stage 1)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, DraftState, error) {
		stage := ws.Retreat()
		return nil, DraftState{Stage: stage, Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_field",
		Description: "Set one field of the draft record by its JSON field name",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateFieldInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if err := ws.UpdateField(in.Field, in.Value); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	// Sign-off rows
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_reviewer",
		Description: "Append a blank sign-off row to the draft, dated today",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		ws.AddReviewer()
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_reviewer",
		Description: "Set one field (role, name, opinion, date) of a sign-off row",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateReviewerInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if err := ws.UpdateReviewer(in.ID, in.Field, in.Value); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_reviewer",
		Description: "Remove a sign-off row from the draft by id",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in reviewerIDInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if err := ws.RemoveReviewer(in.ID); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	// Affected files
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_affected_file",
		Description: "Track another affected document on the draft (blank names are ignored)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addFileInput) (*sdkmcp.CallToolResult, addFileOutput, error) {
		added := ws.AddFile(in.Name)
		return nil, addFileOutput{Added: added, Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_file_status",
		Description: "Set the tracking status of an affected file by index",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in setFileStatusInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if err := ws.SetFileStatus(in.Index, ecn.FileStatus(in.Status)); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_affected_file",
		Description: "Stop tracking an affected file by index (seeded defaults removable too)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in fileIndexInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if err := ws.RemoveFile(in.Index); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	// Attachments
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_attachment",
		Description: "Record a supporting file against one wizard stage of the draft",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addAttachmentInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if _, err := ws.AddAttachment(in.Stage, in.FileName, in.FileType); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_stage_attachments",
		Description: "List the draft attachments collected under one wizard stage",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in stageInput) (*sdkmcp.CallToolResult, stageAttachmentsOutput, error) {
		if in.Stage < wizard.FirstStage || in.Stage > wizard.FinalStage {
			return nil, stageAttachmentsOutput{}, mapError(fmt.Errorf("%w: got %d", wizard.ErrInvalidStage, in.Stage))
		}
		attachments := ws.StageAttachments(in.Stage)
		if attachments == nil {
			attachments = []ecn.Attachment{}
		}
		return nil, stageAttachmentsOutput{Stage: in.Stage, Attachments: attachments}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_attachment",
		Description: "Remove a draft attachment by id",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in attachmentIDInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		if err := ws.RemoveAttachment(in.ID); err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: ws.Draft()}, nil
	})

	// Submission
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_ecn",
		Description: "Commit the draft to the ledger as COMPLETED; requires stage 7 and a title",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		committed, err := ws.Submit(ctx)
		if err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: committed}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "discard_draft",
		Description: "Throw away the draft and return a fresh stage-1 record",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, DraftState, error) {
		rec := ws.Reset()
		return nil, DraftState{Stage: ws.Stage(), Record: rec}, nil
	})

	// Ledger
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_records",
		Description: "List all ledger records, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, listRecordsOutput, error) {
		records, err := ls.List(ctx)
		if err != nil {
			return nil, listRecordsOutput{}, mapError(err)
		}
		return nil, listRecordsOutput{Records: records}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_record",
		Description: "Get one ledger record by id or by document number",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in getRecordInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		var (
			rec *ecn.Record
			err error
		)
		if in.DocNumber != "" {
			rec, err = ls.GetByDocNumber(ctx, in.DocNumber)
		} else {
			rec, err = ls.Get(ctx, in.ID)
		}
		if err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: rec}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_record",
		Description: "Merge a partial record into a ledger record; unmentioned fields are kept",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateRecordInput) (*sdkmcp.CallToolResult, recordOutput, error) {
		rec, err := ls.Update(ctx, in.ID, in.Fields)
		if err != nil {
			return nil, recordOutput{}, mapError(err)
		}
		return nil, recordOutput{Record: rec}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_record",
		Description: "Delete a ledger record by id",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in recordIDInput) (*sdkmcp.CallToolResult, statusOutput, error) {
		if err := ls.Delete(ctx, in.ID); err != nil {
			return nil, statusOutput{}, mapError(err)
		}
		return nil, statusOutput{Status: "deleted"}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ledger_summary",
		Description: "Count records by outcome: total, completed, pending, rejected",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, ecn.Summary, error) {
		summary, err := ls.Summary(ctx)
		if err != nil {
			return nil, ecn.Summary{}, mapError(err)
		}
		return nil, summary, nil
	})

	// Snapshots
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_snapshot",
		Description: "Export the whole ledger as a JSON snapshot",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, snapshotOutput, error) {
		data, err := ls.ExportSnapshot(ctx)
		if err != nil {
			return nil, snapshotOutput{}, mapError(err)
		}
		return nil, snapshotOutput{FileName: snapshot.FileName(), Content: string(data)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_snapshot",
		Description: "Replace the whole ledger with a JSON snapshot; rejected snapshots leave the ledger untouched",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in importSnapshotInput) (*sdkmcp.CallToolResult, importSnapshotOutput, error) {
		count, err := ls.ImportSnapshot(ctx, []byte(in.Content))
		if err != nil {
			return nil, importSnapshotOutput{}, mapError(err)
		}
		return nil, importSnapshotOutput{Imported: count}, nil
	})

	// Document rendering
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "render_document",
		Description: "Render the printable change-notice document for a ledger record",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in renderDocumentInput) (*sdkmcp.CallToolResult, renderDocumentOutput, error) {
		rec, err := ls.GetByDocNumber(ctx, in.DocNumber)
		if err != nil {
			return nil, renderDocumentOutput{}, mapError(err)
		}
		artifact := document.Render(rec)
		return nil, renderDocumentOutput{
			FileName:    artifact.FileName,
			ContentType: artifact.ContentType,
			Content:     string(artifact.Content),
		}, nil
	})
}
