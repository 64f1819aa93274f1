// internal/models/quote.go
package models

// Quote is one vendor's priced document. Monetary fields are pointers because
// absence is not the same as zero: an extracted quote often has a total but
// no subtotal breakdown, and arithmetic must not invent numbers.
type Quote struct {
	ID                 string             `json:"id"`
	ProjectID          string             `json:"projectId,omitempty"`
	VendorName         string             `json:"vendorName"`
	QuoteNumber        string             `json:"quoteNumber,omitempty"`
	Subtotal           *float64           `json:"subtotal,omitempty"`
	Tax                *float64           `json:"tax,omitempty"`
	Freight            *float64           `json:"freight,omitempty"`
	Total              *float64           `json:"total,omitempty"`
	IsWrapper          bool               `json:"isWrapper"`
	ReconciliationRule ReconciliationRule `json:"reconciliationRule,omitempty"`
	ParentQuoteID      string             `json:"parentQuoteId,omitempty"`
	Status             QuoteStatus        `json:"status"`
	Confidence         Confidence         `json:"confidence,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	RawText            string             `json:"rawText,omitempty"`
}

// CombinedText is the evidence source for text matching: everything the
// vendor or the extractor wrote about this quote.
func (q *Quote) CombinedText() string {
	if q.Notes == "" {
		return q.RawText
	}
	if q.RawText == "" {
		return q.Notes
	}
	return q.Notes + "\n" + q.RawText
}

// Line is one priced item within a quote. MatchEvidence is always extracted
// text (vendor name, quote number), never an internal identifier: an ID match
// proves nothing about real-world correspondence.
type Line struct {
	ID              string      `json:"id"`
	QuoteID         string      `json:"quoteId,omitempty"`
	Description     string      `json:"description"`
	ScopeTag        string      `json:"scopeTag,omitempty"`
	Quantity        *float64    `json:"quantity,omitempty"`
	Unit            string      `json:"unit,omitempty"`
	UnitPrice       *float64    `json:"unitPrice,omitempty"`
	Amount          *float64    `json:"amount,omitempty"`
	LineType        LineType    `json:"lineType,omitempty"`
	MatchedLineID   string      `json:"matchedLineId,omitempty"`
	MatchConfidence int         `json:"matchConfidence,omitempty"`
	MatchEvidence   string      `json:"matchEvidence,omitempty"`
	Status          QuoteStatus `json:"status,omitempty"`
}

// Amount returns a pointer to v, for building nullable monetary fields.
func Amount(v float64) *float64 {
	return &v
}

// Value dereferences a nullable amount, treating nil as 0. Use only where
// arithmetic requires a number; elsewhere nil means "no evidence".
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
