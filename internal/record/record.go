// Package record holds the data shapes that flow between pipeline stages.
package record

// Confidence is the reliability tag attached to an inferred
// brand-product association.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// DraftProduct is an unvalidated product/brand tuple extracted from
// page text. It originates from the oracle, so consumers must treat
// every field as possibly empty.
type DraftProduct struct {
	RepFirmName    string
	BrandCarried   string
	ProductCovered string
	ProductSpace   string
}

// ProductSpace is one normalized, exportable row. After normalization
// ProductCovered and ProductSpace each hold a single atomic value.
// Confidence is empty unless a brand association was inferred.
type ProductSpace struct {
	RepFirmName    string
	BrandCarried   string
	ProductCovered string
	ProductSpace   string
	Confidence     Confidence
}

// FromDraft carries a draft over unchanged, with no confidence tag.
func FromDraft(d DraftProduct) ProductSpace {
	return ProductSpace{
		RepFirmName:    d.RepFirmName,
		BrandCarried:   d.BrandCarried,
		ProductCovered: d.ProductCovered,
		ProductSpace:   d.ProductSpace,
	}
}
