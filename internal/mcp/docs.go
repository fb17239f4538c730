package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `changeledger tracks Engineering Change Notices (ECNs) through a seven-stage approval wizard and keeps finished notices in a ledger.

Core concepts:
- Draft: the one in-progress ECN held by the wizard. There is exactly one draft at a time.
- Stage: wizard position 1..7. Stages move one at a time (advance_stage / retreat_stage) and never discard entered data.
  1 Basic info, 2 Change description, 3 Feasibility and impact, 4 Sign-off and customer approval,
  5 Implementation and affected files, 6 Trial verification, 7 Review and submit.
- Ledger: committed records, newest first. Records carry a document number like ECN-20260829-042.

Default workflow:
1) start_ecn for a fresh draft, or get_draft to see where you are.
2) Fill fields with update_field (JSON field names, e.g. title, source, applyDate, beforeChange).
3) Manage sign-off rows (add_reviewer / update_reviewer / remove_reviewer), affected files
   (add_affected_file / set_file_status / remove_affected_file), and per-stage attachments
   (add_attachment / list_stage_attachments / remove_attachment).
4) advance_stage to 7, then submit_ecn. Submission needs a non-blank title; on failure nothing changes.
5) Browse with list_records / get_record / ledger_summary. Partial edits via update_record keep
   unmentioned fields; id and docNumber are immutable.
6) export_snapshot / import_snapshot move the whole ledger as JSON. Import replaces everything and
   rejects malformed snapshots without touching the ledger.
7) render_document produces the printable change-notice document for a committed record.

Docs:
- ecn://docs/index (what to read when)
- ecn://docs/lifecycle (stages, statuses, and submission rules)
- ecn://docs/record-format (field names and value domains)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "ecn://docs/index",
		Name:        "docs_index",
		Title:       "changeledger docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# changeledger: Agent Docs Index

## Quick start (no deep docs)

1. ` + "`start_ecn`" + ` (or ` + "`get_draft`" + ` to resume).
2. ` + "`update_field`" + ` per field, ` + "`advance_stage`" + ` between stages.
3. ` + "`submit_ecn`" + ` at stage 7 with a title set.
4. ` + "`list_records`" + ` / ` + "`get_record`" + ` / ` + "`render_document`" + ` for committed notices.

## Docs (read on demand)

- ` + "`ecn://docs/lifecycle`" + ` -- stage meanings, status values, and what submission requires.
- ` + "`ecn://docs/record-format`" + ` -- JSON field names and the closed value lists.

## Intentional limitations

- One draft at a time; ` + "`start_ecn`" + ` and ` + "`discard_draft`" + ` both throw the current draft away.
- ` + "`import_snapshot`" + ` replaces the entire ledger, it does not merge.
`,
	},
	{
		URI:         "ecn://docs/lifecycle",
		Name:        "docs_lifecycle",
		Title:       "ECN lifecycle",
		Description: "Stages, statuses, and submission rules.",
		Content: `# ECN lifecycle

## Stages (wizard position, 1..7)

1. Basic info: title, source, category, purpose, applicant, receiver, dates.
2. Change description: beforeChange / afterChange.
3. Feasibility: feasibilityResult, feasibilityDate, technicalImpact, costImpact.
4. Sign-off: reviewer rows plus approver; customer approval gate
   (customerApprovalRequired / customerApprovalResult).
5. Implementation: implementationDate and the affected-file checklist.
6. Trial: trialDate, trialQuantity, trialResult, trialVerificationNote.
7. Review and submit.

Stages move one at a time in both directions. Retreating never discards data.

## Statuses

A draft starts INITIATED. Submission marks the record COMPLETED and files it in the ledger.
REJECTED and the intermediate statuses (FEASIBILITY, REVIEW, CUSTOMER_APP, IMPLEMENTATION, TRIAL)
are set through ` + "`update_field`" + ` or ` + "`update_record`" + ` when the process demands them.
COMPLETED and REJECTED are terminal for summary counting; everything else counts as pending.

## Submission

` + "`submit_ecn`" + ` requires stage 7 and a non-blank title. On any failure the draft and the
ledger are untouched. On success the wizard resets to a fresh stage-1 draft.

## Customer approval gate

Turning ` + "`customerApprovalRequired`" + ` off hides the result from the rendered document but
preserves any ` + "`customerApprovalResult`" + ` already entered, so toggling the gate back on
restores it.
`,
	},
	{
		URI:         "ecn://docs/record-format",
		Name:        "docs_record_format",
		Title:       "Record format",
		Description: "JSON field names and closed value lists used by update_field and update_record.",
		Content: `# Record format

Fields are addressed by their JSON names. Dates are ` + "`YYYY-MM-DD`" + ` strings.

## Identity (immutable)

- ` + "`id`" + ` -- opaque unique id.
- ` + "`docNumber`" + ` -- e.g. ` + "`ECN-20260829-042`" + `; regenerated on collision at commit.

## Closed value lists

- ` + "`status`" + `: DRAFT, INITIATED, FEASIBILITY, REVIEW, CUSTOMER_APP, IMPLEMENTATION, TRIAL, COMPLETED, REJECTED.
- ` + "`source`" + `: Customer Request, Supplier Request, Internal Demand, Other.
- ` + "`category`" + ` (multi-select): Product, Structure, Dimension, Material, Color, Function,
  Performance, Process, Equipment, Tooling, Personnel, Other.
- ` + "`trialResult`" + `: PASS, FAIL, PENDING.
- affected-file ` + "`status`" + `: PENDING, UPDATED, NOT_APPLICABLE.

## Collections

- ` + "`reviewers[]`" + `: {id, role, name, opinion, date}. New drafts seed Quality and
  Manufacturing Engineering rows.
- ` + "`affectedFiles[]`" + `: {name, required, status, version}. New drafts seed the five standard
  documents (Product Drawing, PFD, PFMEA, CP, WI).
- ` + "`attachments[]`" + `: {id, stage, fileName, fileType, uploadDate}, grouped by stage in the
  rendered document.

## Free-form fields

title, purpose, applicant, receiver, applyDate, implementationDate, beforeChange, afterChange,
feasibilityResult, feasibilityDate, technicalImpact, costImpact, approver, trialDate,
trialQuantity (non-negative integer), trialVerificationNote.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
