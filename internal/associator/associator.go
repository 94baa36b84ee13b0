// Package associator reconciles brand identities derived from logo
// images with the product mentions extracted from page text.
package associator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/browser"
	"github.com/v0xg/repscout/internal/record"
)

const associatePrompt = `I'm analyzing a rep firm website page to associate products with their corresponding brands.

REP FIRM: %s
PAGE URL: %s

EXTRACTED PRODUCTS:
%s

EXTRACTED BRANDS:
%s

PAGE CONTENT PREVIEW:
%s

Please analyze which brands are associated with which products. Consider:
1. Proximity of brand logos to product descriptions
2. Context clues in surrounding text
3. Industry knowledge of which brands make which products
4. Water/wastewater treatment equipment manufacturers

Return your analysis as a JSON list where each product gets associated with its likely brands:
[
    {
        "product": "Product Name",
        "brands": ["Brand1", "Brand2", "Brand3"],
        "confidence": "HIGH|MEDIUM|LOW"
    }
]

If you cannot determine brand associations, return an empty list.`

type association struct {
	Product    string   `json:"product"`
	Brands     []string `json:"brands"`
	Confidence string   `json:"confidence"`
}

// Associate expands draft products into brand-tagged rows using the
// brand candidates found on the page. It is used only for pages whose
// structure puts brands in images. Oracle failure falls back to direct
// substring matching; in every path each draft survives in some form
// and, on the fallback path, so does every detected brand.
func Associate(ctx context.Context, oracle ai.Provider, page *browser.Page, drafts []record.DraftProduct, firmName string, logger *zap.Logger) []record.ProductSpace {
	candidates := ExtractBrandCandidates(ctx, oracle, page, logger)

	if len(candidates) == 0 || len(drafts) == 0 {
		return passThrough(drafts)
	}

	logger.Info("associating products with brands",
		zap.Int("products", len(drafts)),
		zap.Int("brands", len(candidates)))

	associations, err := askOracle(ctx, oracle, page, drafts, candidates, firmName)
	if err != nil {
		logger.Warn("brand association failed, using direct matching fallback", zap.Error(err))
		return fallbackAssociate(drafts, candidates, firmName)
	}

	var out []record.ProductSpace
	for _, d := range drafts {
		match := matchAssociation(d.ProductCovered, associations)
		if match == nil || len(match.Brands) == 0 {
			out = append(out, record.FromDraft(d))
			continue
		}
		conf := parseConfidence(match.Confidence)
		for _, brand := range match.Brands {
			out = append(out, record.ProductSpace{
				RepFirmName:    firmName,
				BrandCarried:   brand,
				ProductCovered: d.ProductCovered,
				ProductSpace:   d.ProductSpace,
				Confidence:     conf,
			})
		}
	}

	logger.Info("brand association complete",
		zap.Int("in", len(drafts)),
		zap.Int("out", len(out)))

	return out
}

func askOracle(ctx context.Context, oracle ai.Provider, page *browser.Page, drafts []record.DraftProduct, candidates []BrandCandidate, firmName string) ([]association, error) {
	var productLines []string
	for _, d := range drafts {
		productLines = append(productLines,
			fmt.Sprintf("- %s (Space: %s)", d.ProductCovered, d.ProductSpace))
	}
	var brandLines []string
	for _, c := range candidates {
		brandLines = append(brandLines,
			fmt.Sprintf("- %s (Context: %s...)", c.BrandName, truncate(c.ContextText, 100)))
	}

	resp, err := oracle.Complete(ctx, ai.Request{
		Prompt: fmt.Sprintf(associatePrompt,
			firmName,
			page.URL,
			strings.Join(productLines, "\n"),
			strings.Join(brandLines, "\n"),
			truncate(page.PlainText, 2000)),
		MaxTokens:   1000,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var associations []association
	if err := ai.ExtractJSONArray(resp, &associations); err != nil {
		return nil, err
	}
	return associations, nil
}

// matchAssociation pairs a product with an oracle association entry by
// case-insensitive substring containment in either direction.
func matchAssociation(product string, associations []association) *association {
	p := strings.ToLower(product)
	for i := range associations {
		a := strings.ToLower(associations[i].Product)
		if a == "" || p == "" {
			continue
		}
		if strings.Contains(p, a) || strings.Contains(a, p) {
			return &associations[i]
		}
	}
	return nil
}

// fallbackAssociate is the deterministic path when the oracle cannot
// be used. Drafts without a usable brand get a direct substring match
// against the candidate list at LOW confidence; unmatched drafts pass
// through; brands not represented anywhere in the output are emitted
// as standalone low-confidence rows.
func fallbackAssociate(drafts []record.DraftProduct, candidates []BrandCandidate, firmName string) []record.ProductSpace {
	var out []record.ProductSpace

	for _, d := range drafts {
		if d.BrandCarried != "" && !strings.EqualFold(d.BrandCarried, "Unknown") {
			out = append(out, record.FromDraft(d))
			continue
		}

		matched := false
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(d.ProductCovered), strings.ToLower(c.BrandName)) {
				out = append(out, record.ProductSpace{
					RepFirmName:    firmName,
					BrandCarried:   c.BrandName,
					ProductCovered: d.ProductCovered,
					ProductSpace:   d.ProductSpace,
					Confidence:     record.ConfidenceLow,
				})
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, record.FromDraft(d))
		}
	}

	// Every detected brand must appear in the output even with no
	// confirmed product link.
	for _, c := range candidates {
		represented := false
		for _, r := range out {
			if strings.Contains(strings.ToLower(r.BrandCarried), strings.ToLower(c.BrandName)) {
				represented = true
				break
			}
		}
		if !represented {
			out = append(out, record.ProductSpace{
				RepFirmName:    firmName,
				BrandCarried:   c.BrandName,
				ProductCovered: "General equipment line",
				ProductSpace:   "General",
				Confidence:     record.ConfidenceLow,
			})
		}
	}

	return out
}

func passThrough(drafts []record.DraftProduct) []record.ProductSpace {
	out := make([]record.ProductSpace, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, record.FromDraft(d))
	}
	return out
}

func parseConfidence(s string) record.Confidence {
	switch record.Confidence(strings.ToUpper(strings.TrimSpace(s))) {
	case record.ConfidenceHigh:
		return record.ConfidenceHigh
	case record.ConfidenceLow:
		return record.ConfidenceLow
	default:
		return record.ConfidenceMedium
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
