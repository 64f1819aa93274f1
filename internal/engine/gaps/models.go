// internal/engine/gaps/models.go
package gaps

import "costguard/internal/models"

// Input is the project snapshot the gap scan runs over.
type Input struct {
	Quotes []models.Quote `json:"quotes"`
	Lines  []models.Line  `json:"lines"`
}

// Output carries the consolidated missing-scope records.
type Output struct {
	Gaps []models.GapDraft `json:"gaps"`
}

// ExclusionHit is the result of scanning one text for exclusion language.
// ScopeHint is a best-effort guess at what was excluded, taken from the words
// just before the keyword; the LOW confidence on the resulting gap flags it
// for human review.
type ExclusionHit struct {
	Found     bool   `json:"found"`
	Keyword   string `json:"keyword,omitempty"`
	ScopeHint string `json:"scopeHint,omitempty"`
}
