package ecn

// Status represents the lifecycle state of an ECN record
type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusInitiated      Status = "INITIATED"
	StatusFeasibility    Status = "FEASIBILITY"
	StatusReview         Status = "REVIEW"
	StatusCustomerApp    Status = "CUSTOMER_APP"
	StatusImplementation Status = "IMPLEMENTATION"
	StatusTrial          Status = "TRIAL"
	StatusCompleted      Status = "COMPLETED"
	StatusRejected       Status = "REJECTED"
)

// Terminal reports whether no further lifecycle movement is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// TrialResult represents the outcome of trial production verification
type TrialResult string

const (
	TrialPass    TrialResult = "PASS"
	TrialFail    TrialResult = "FAIL"
	TrialPending TrialResult = "PENDING"
)

// FileStatus represents the update state of an affected engineering document
type FileStatus string

const (
	FilePending       FileStatus = "PENDING"
	FileUpdated       FileStatus = "UPDATED"
	FileNotApplicable FileStatus = "NOT_APPLICABLE"
)

// Source identifies where a change request originated
type Source string

const (
	SourceCustomer Source = "Customer Request"
	SourceSupplier Source = "Supplier Request"
	SourceInternal Source = "Internal Demand"
	SourceOther    Source = "Other"
)

// Categories is the closed set of change classification tags.
var Categories = []string{
	"Product", "Structure", "Dimension", "Material", "Color", "Function",
	"Performance", "Process", "Equipment", "Tooling", "Personnel", "Other",
}

// Purposes lists the standard change objectives. Free-form labels are
// also accepted.
var Purposes = []string{
	"Quality Improvement", "Cost Reduction", "Efficiency", "Reliability",
	"Functionality", "Other",
}

// Reviewer is one row of the multi-disciplinary team sign-off table.
type Reviewer struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	Opinion string `json:"opinion"`
	Date    string `json:"date"`
}

// AffectedFile tracks one engineering document touched by the change.
type AffectedFile struct {
	Name     string     `json:"name"`
	Required bool       `json:"required"`
	Status   FileStatus `json:"status"`
	Version  string     `json:"version,omitempty"`
}

// Attachment is a supporting file collected under one wizard stage.
type Attachment struct {
	ID         string `json:"id"`
	Stage      int    `json:"stage"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	UploadDate string `json:"uploadDate"`
}

// Record is an Engineering Change Notice. Dates are plain YYYY-MM-DD
// strings; collection order is insertion order and survives every
// serialization round trip.
type Record struct {
	ID                 string   `json:"id"`
	DocNumber          string   `json:"docNumber"`
	Title              string   `json:"title"`
	Source             Source   `json:"source"`
	Category           []string `json:"category"`
	Purpose            []string `json:"purpose"`
	Applicant          string   `json:"applicant"`
	Receiver           string   `json:"receiver"`
	ApplyDate          string   `json:"applyDate"`
	ImplementationDate string   `json:"implementationDate"`
	Status             Status   `json:"status"`

	// Stage 1: initiation
	BeforeChange string `json:"beforeChange"`
	AfterChange  string `json:"afterChange"`

	// Stage 2: feasibility analysis
	FeasibilityResult string `json:"feasibilityResult"`
	FeasibilityDate   string `json:"feasibilityDate"`
	TechnicalImpact   string `json:"technicalImpact"`
	CostImpact        string `json:"costImpact"`

	// Stage 3: internal review
	Reviewers []Reviewer `json:"reviewers"`
	Approver  string     `json:"approver"`

	// Stage 4: customer approval. The result is preserved even while the
	// gate is off.
	CustomerApprovalRequired bool   `json:"customerApprovalRequired"`
	CustomerApprovalResult   string `json:"customerApprovalResult"`

	// Stage 5: engineering implementation
	AffectedFiles []AffectedFile `json:"affectedFiles"`

	// Stage 6: trial verification
	TrialDate             string      `json:"trialDate"`
	TrialQuantity         int         `json:"trialQuantity"`
	TrialResult           TrialResult `json:"trialResult"`
	TrialVerificationNote string      `json:"trialVerificationNote"`

	Attachments []Attachment `json:"attachments"`
}

// Summary holds the ledger-level aggregation consumed by dashboards.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Rejected  int `json:"rejected"`
}
