package model

import "time"

// WeightSource identifies which stage of the resolution chain produced a
// unit weight estimate.
type WeightSource string

const (
	WeightSourceUser            WeightSource = "user"
	WeightSourceLabel           WeightSource = "label"
	WeightSourceGeminiPhoto     WeightSource = "gemini_photo"
	WeightSourceCategoryDefault WeightSource = "category_default"
)

// UnitScope describes whether a photographed pack is the sellable unit
// itself or a multipack whose per-unit weight was derived from a legible
// inner count.
type UnitScope string

const (
	UnitScopeOuterPack UnitScope = "outer_pack"
	UnitScopeInnerUnit UnitScope = "inner_unit"
	UnitScopeUnknown   UnitScope = "unknown"
)

// BarcodeAnalysis holds barcode pipeline output for a report.
// Uploaded/Detected are pointers so "status unavailable" stays distinct
// from "confirmed false".
type BarcodeAnalysis struct {
	Uploaded *bool  `json:"uploaded,omitempty"`
	Detected *bool  `json:"detected,omitempty"`
	Value    string `json:"value,omitempty"`
}

// LabelAnalysis holds label OCR pipeline output for a report.
type LabelAnalysis struct {
	Uploaded      *bool    `json:"uploaded,omitempty"`
	OCRText       string   `json:"ocr_text,omitempty"`
	Terms         []string `json:"terms,omitempty"`
	OriginCountry string   `json:"origin_country,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Material      string   `json:"material,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
}

// ReportAnalysis groups the upstream pipeline results this core reads.
type ReportAnalysis struct {
	Barcode BarcodeAnalysis `json:"barcode"`
	Label   LabelAnalysis   `json:"label"`
	HSCode  string          `json:"hs_code,omitempty"`
}

// ReportInput holds user-entered values attached to a report.
type ReportInput struct {
	WeightGrams          *float64 `json:"weight_grams,omitempty"`
	WeightIsUserProvided bool     `json:"weight_is_user_provided,omitempty"`
	UnitsPerPack         *int     `json:"units_per_pack,omitempty"`
	TargetPriceUSD       *float64 `json:"target_price_usd,omitempty"`
	Notes                string   `json:"notes,omitempty"`
}

// RawReportView is the typed projection of a persisted report record.
// Every field this core consumes is declared here, all optional; presence
// semantics are decided once, in the evidence normalizer, never ad hoc at
// call sites. The core only reads this view — it never writes the report.
type RawReportView struct {
	ID              string         `json:"id"`
	Category        string         `json:"category,omitempty"`
	ProductName     string         `json:"product_name,omitempty"`
	ProductImageURL string         `json:"product_image_url,omitempty"`
	LabelImageURL   string         `json:"label_image_url,omitempty"`
	Analysis        ReportAnalysis `json:"analysis"`
	Input           ReportInput    `json:"input"`
	CreatedAt       time.Time      `json:"created_at,omitzero"`
}

// GramRange is an inclusive display range around a weight estimate.
type GramRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// UnitWeightResult is one authoritative weight estimate for a report.
// Invariant: 1 <= RangeGrams.Min <= Grams <= RangeGrams.Max <= 5000.
type UnitWeightResult struct {
	Grams               float64      `json:"grams"`
	RangeGrams          GramRange    `json:"range_grams"`
	Source              WeightSource `json:"source"`
	Confidence          float64      `json:"confidence"`
	Rationale           string       `json:"rationale"`
	UnitScope           UnitScope    `json:"unit_scope,omitempty"`
	PackCount           *int         `json:"pack_count,omitempty"`
	PackCountConfidence float64      `json:"pack_count_confidence,omitempty"`
}
