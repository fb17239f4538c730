// Package document projects one ECN record into its distributable form:
// a standalone HTML file with a word-processor-compatible name. The
// projection is deterministic: the same record always renders to the
// same bytes, and the input record is never mutated.
package document

import (
	"fmt"
	"html"
	"strings"

	"github.com/ecmpro/changeledger/internal/domain/ecn"
)

// Placeholder substitutes for optional fields left empty, so sections
// never silently disappear.
const Placeholder = "not filled"

// ContentType matches the original word-processor export.
const ContentType = "application/msword"

// Artifact is the rendered export for one record.
type Artifact struct {
	DocNumber   string
	FileName    string
	ContentType string
	Content     []byte
}

// Render produces the seven-section change notice document.
func Render(rec *ecn.Record) Artifact {
	var b strings.Builder

	b.WriteString("<html>\n<head><meta charset='utf-8'></head>\n")
	b.WriteString("<body style='font-family: serif; padding: 40px; line-height: 1.6;'>\n")
	b.WriteString("<h1 style='text-align: center; border-bottom: 2px solid #1e40af; padding-bottom: 10px;'>Engineering Change Notice (ECN)</h1>\n")
	fmt.Fprintf(&b, "<p style='text-align: right;'><b>Doc Number:</b> %s | <b>Apply Date:</b> %s</p>\n",
		esc(rec.DocNumber), orPlaceholder(rec.ApplyDate))

	writeDescription(&b, rec)
	writeFeasibility(&b, rec)
	writeSignOff(&b, rec)
	writeCustomerApproval(&b, rec)
	writeAffectedFiles(&b, rec)
	writeTrial(&b, rec)
	writeAttachmentIndex(&b, rec)

	b.WriteString("<p style='margin-top: 50px; font-size: 12px; border-top: 1px solid #ccc; padding-top: 10px;'>* Generated by the change ledger. Serves IATF 16949 clause 8.5.6 change control.</p>\n")
	b.WriteString("</body>\n</html>\n")

	return Artifact{
		DocNumber:   rec.DocNumber,
		FileName:    rec.DocNumber + ".doc",
		ContentType: ContentType,
		Content:     []byte(b.String()),
	}
}

func writeDescription(b *strings.Builder, rec *ecn.Record) {
	heading(b, "1. Change Description")
	openTable(b)
	row(b, "Title", orPlaceholder(rec.Title))
	row(b, "Source", fmt.Sprintf("%s | <b>Category:</b> %s",
		orPlaceholder(string(rec.Source)), joinOrPlaceholder(rec.Category)))
	row(b, "Purpose", joinOrPlaceholder(rec.Purpose))
	row(b, "Applicant", fmt.Sprintf("%s | <b>Receiver:</b> %s",
		orPlaceholder(rec.Applicant), orPlaceholder(rec.Receiver)))
	row(b, "Before Change", orPlaceholder(rec.BeforeChange))
	row(b, "After Change", orPlaceholder(rec.AfterChange))
	closeTable(b)
}

func writeFeasibility(b *strings.Builder, rec *ecn.Record) {
	heading(b, "2. Feasibility & Impact Assessment")
	openTable(b)
	row(b, "Feasibility Result", orPlaceholder(rec.FeasibilityResult))
	row(b, "Feasibility Date", orPlaceholder(rec.FeasibilityDate))
	row(b, "Technical Impact", orPlaceholder(rec.TechnicalImpact))
	row(b, "Cost Impact", orPlaceholder(rec.CostImpact))
	closeTable(b)
}

func writeSignOff(b *strings.Builder, rec *ecn.Record) {
	heading(b, "3. MDT Sign-off Record")
	b.WriteString("<table border='1' cellspacing='0' cellpadding='8' style='width: 100%; border-collapse: collapse; margin-bottom: 20px;'>\n")
	b.WriteString("<thead><tr><th align='left'>Role</th><th align='left'>Name</th><th align='left'>Opinion</th><th align='left'>Date</th></tr></thead>\n<tbody>\n")
	if len(rec.Reviewers) == 0 {
		b.WriteString("<tr><td colspan='4' align='center'>no sign-off entries</td></tr>\n")
	}
	for _, rev := range rec.Reviewers {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			orPlaceholder(rev.Role), orPlaceholder(rev.Name),
			orPlaceholder(rev.Opinion), orPlaceholder(rev.Date))
	}
	b.WriteString("</tbody>\n</table>\n")
	fmt.Fprintf(b, "<p><b>Final Approver:</b> %s</p>\n", orPlaceholder(rec.Approver))
}

func writeCustomerApproval(b *strings.Builder, rec *ecn.Record) {
	heading(b, "4. Customer Approval")
	if !rec.CustomerApprovalRequired {
		b.WriteString("<p>Not applicable</p>\n")
		return
	}
	fmt.Fprintf(b, "<p>%s</p>\n", orPlaceholder(rec.CustomerApprovalResult))
}

func writeAffectedFiles(b *strings.Builder, rec *ecn.Record) {
	heading(b, "5. Implementation & Affected Files")
	if len(rec.AffectedFiles) == 0 {
		fmt.Fprintf(b, "<p>%s</p>\n", Placeholder)
		return
	}
	b.WriteString("<ul>\n")
	for _, f := range rec.AffectedFiles {
		fmt.Fprintf(b, "<li>%s: [%s]</li>\n", esc(f.Name), orPlaceholder(string(f.Status)))
	}
	b.WriteString("</ul>\n")
}

func writeTrial(b *strings.Builder, rec *ecn.Record) {
	heading(b, "6. Trial Verification")
	openTable(b)
	row(b, "Trial Detail", fmt.Sprintf("Date: %s | Quantity: %d | Result: %s",
		orPlaceholder(rec.TrialDate), rec.TrialQuantity, orPlaceholder(string(rec.TrialResult))))
	row(b, "Verification Note", orPlaceholder(rec.TrialVerificationNote))
	closeTable(b)
}

// writeAttachmentIndex groups the index by stage; an attachment appears
// only under its own stage heading.
func writeAttachmentIndex(b *strings.Builder, rec *ecn.Record) {
	heading(b, "7. Attachment Index")
	for stage := 1; stage <= 7; stage++ {
		fmt.Fprintf(b, "<p><b>Stage %d</b></p>\n<ul>\n", stage)
		count := 0
		for _, att := range rec.Attachments {
			if att.Stage != stage {
				continue
			}
			fmt.Fprintf(b, "<li>%s (%s, %s)</li>\n",
				esc(att.FileName), orPlaceholder(att.FileType), orPlaceholder(att.UploadDate))
			count++
		}
		if count == 0 {
			fmt.Fprintf(b, "<li>%s</li>\n", "none")
		}
		b.WriteString("</ul>\n")
	}
}

func heading(b *strings.Builder, text string) {
	fmt.Fprintf(b, "<h3 style='background: #f1f5f9; padding: 8px;'>%s</h3>\n", text)
}

func openTable(b *strings.Builder) {
	b.WriteString("<table border='1' cellspacing='0' cellpadding='8' style='width: 100%; border-collapse: collapse; margin-bottom: 20px;'>\n")
}

func closeTable(b *strings.Builder) {
	b.WriteString("</table>\n")
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<tr><td width='20%%'><b>%s</b></td><td>%s</td></tr>\n", label, value)
}

func esc(s string) string {
	return html.EscapeString(s)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return esc(s)
}

func joinOrPlaceholder(values []string) string {
	if len(values) == 0 {
		return Placeholder
	}
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, esc(v))
	}
	return strings.Join(escaped, ", ")
}
