package model

// EvidenceType tags the kind of evidence backing a confirmed fact.
type EvidenceType string

const (
	EvidenceBarcode   EvidenceType = "barcode"
	EvidenceLabel     EvidenceType = "label"
	EvidenceCustoms   EvidenceType = "customs"
	EvidenceUserInput EvidenceType = "user_input"
	EvidenceVision    EvidenceType = "vision"
)

// Impact grades how much a missing input hurts estimate quality.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// FactItem is one confirmed fact about a report, for display.
type FactItem struct {
	Label        string       `json:"label"`
	Value        string       `json:"value"`
	EvidenceType EvidenceType `json:"evidence_type"`
	Confidence   float64      `json:"confidence"`
	Source       string       `json:"source"`
}

// MissingInfoItem is one missing input, with the impact of supplying it.
type MissingInfoItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Impact Impact `json:"impact"`
}
