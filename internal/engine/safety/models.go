// internal/engine/safety/models.go
package safety

import "costguard/internal/models"

// AuditStatus classifies a wrapper-vs-children audit.
type AuditStatus string

const (
	AuditOK               AuditStatus = "OK"
	AuditTaxTrapDetected  AuditStatus = "TAX_TRAP_DETECTED"
	AuditVarianceWarning  AuditStatus = "VARIANCE_WARNING"
)

// AuditResult is the outcome of auditing a wrapper total against the sum of
// its children.
type AuditResult struct {
	Status          AuditStatus `json:"status"`
	VariancePercent float64     `json:"variancePercent"`
	WrapperTotal    float64     `json:"wrapperTotal"`
	ChildrenSum     float64     `json:"childrenSum"`
	Recommendation  string      `json:"recommendation,omitempty"`
}

// ValidationResult reports whether a wrapper honors the Wrapper Truth Rule.
// Issues are fatal (IsValid=false); warnings are advisory. The caller decides
// whether either blocks a workflow.
type ValidationResult struct {
	IsValid      bool        `json:"isValid"`
	VerifiedCost float64     `json:"verifiedCost"`
	Issues       []string    `json:"issues,omitempty"`
	Warnings     []string    `json:"warnings,omitempty"`
	Audit        *AuditResult `json:"audit,omitempty"`
}

// SoftMatchSafety is the verdict of the stand-alone soft-match gate.
type SoftMatchSafety struct {
	Approved bool                  `json:"approved"`
	Reason   string                `json:"reason"`
	Decision *models.DecisionDraft `json:"decision,omitempty"`
}

// ConfidenceInput feeds the deterministic confidence calculation.
type ConfidenceInput struct {
	HasTextEvidence bool              `json:"hasTextEvidence"`
	VariancePercent float64           `json:"variancePercent"`
	SourceType      models.SourceType `json:"sourceType"`
	HasRanges       bool              `json:"hasRanges"`
}

// BidBenchmark places a subcontractor bid against the market range for its
// scope.
type BidBenchmark struct {
	Bid             float64            `json:"bid"`
	Market          models.CostRange   `json:"market"`
	VariancePercent float64            `json:"variancePercent"`
	Position        models.BidPosition `json:"position"`
}
