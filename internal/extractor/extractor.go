// Package extractor turns page text into draft product records.
package extractor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/record"
)

const contentPreviewLimit = 10000

const extractPrompt = `Please extract a table with the following columns:
- Rep Firm Name (must be the official, properly capitalized name of the rep firm, not an abbreviation, domain, or placeholder)
- Brand Carried (must be the official, properly capitalized brand/manufacturer name, not a filename, abbreviation, or unclear string)
- Product Covered (extract the exact products listed or mentioned on the page; be as specific as possible)
- Product Space (use broad water/wastewater treatment process steps, e.g., Flow Control, Clarification, Disinfection, Aeration, Filtration, Chemical Feed, etc. Do NOT use specific model names or chemicals. If you cannot be specific, use 'Water Treatment' or 'Wastewater Treatment' as a catch-all, but only as a last resort)

Rep Firm Name: %s

Website content (select all and copy):
%s

Please analyze this content carefully and extract any information about:
1. Manufacturers or brands the rep firm represents (official, properly capitalized names only)
2. Equipment categories or product types they offer (exact products listed; be as specific as possible)
3. Water/wastewater treatment process steps they cover (broad categories only; be as specific as possible)

IMPORTANT:
- Do NOT include any entries where the Rep Firm Name or Brand Carried is not a proper, official, and capitalized name.
- Do NOT include filenames, placeholders, or unclear strings (e.g., 'top of page', 'Sig 3-14-22.png', etc.) in any field.
- Do NOT use generic terms like 'Various Steps...' for Product Space. If you cannot be specific, use 'Water Treatment' or 'Wastewater Treatment' as a catch-all, but only if no specificity is possible.
- Only include entries where you can identify relevant, specific information.
- If no clear product information is found, return a single entry with the official rep firm name and a general description, but do NOT include any unclear or irrelevant data.

Please return the data in JSON format as a list of dictionaries with keys: "Rep Firm Name", "Brand Carried", "Product Covered", "Product Space".
Only include valid, relevant entries as described above.`

// fallbackRecord is emitted whenever the oracle yields nothing usable,
// so extraction degrades instead of aborting the pipeline.
func fallbackRecord(firmName string) record.DraftProduct {
	return record.DraftProduct{
		RepFirmName:    firmName,
		BrandCarried:   "Information not available on website",
		ProductCovered: "Water/Wastewater Treatment Equipment",
		ProductSpace:   "General",
	}
}

// Extract asks the oracle for draft product rows from pageText. It
// never returns an error and never returns an empty list: total
// failure produces exactly one fallback record carrying the firm name.
func Extract(ctx context.Context, oracle ai.Provider, pageText, firmName string, logger *zap.Logger) []record.DraftProduct {
	preview := pageText
	if len(preview) > contentPreviewLimit {
		preview = preview[:contentPreviewLimit]
	}

	resp, err := oracle.Complete(ctx, ai.Request{
		Prompt:      fmt.Sprintf(extractPrompt, firmName, preview),
		MaxTokens:   2000,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("product extraction failed, emitting fallback record", zap.Error(err))
		return []record.DraftProduct{fallbackRecord(firmName)}
	}

	drafts, err := parseDrafts(resp)
	if err != nil || len(drafts) == 0 {
		logger.Warn("could not parse extraction response, emitting fallback record",
			zap.Error(err))
		return []record.DraftProduct{fallbackRecord(firmName)}
	}

	logger.Info("products extracted", zap.Int("count", len(drafts)))
	return drafts
}

// parseDrafts pulls a JSON array of row objects out of the response.
// The oracle's output is an ad-hoc contract, so each entry is validated
// field by field; rows that carry nothing usable are dropped.
func parseDrafts(resp string) ([]record.DraftProduct, error) {
	var raw []map[string]any
	if err := ai.ExtractJSONArray(resp, &raw); err != nil {
		return nil, err
	}

	var drafts []record.DraftProduct
	for _, entry := range raw {
		d := record.DraftProduct{
			RepFirmName:    stringField(entry, "Rep Firm Name"),
			BrandCarried:   stringField(entry, "Brand Carried"),
			ProductCovered: stringField(entry, "Product Covered"),
			ProductSpace:   stringField(entry, "Product Space"),
		}
		if d.ProductSpace == "" {
			// Some responses use the export column name instead.
			d.ProductSpace = stringField(entry, "Space")
		}
		if d == (record.DraftProduct{}) {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func stringField(entry map[string]any, key string) string {
	if v, ok := entry[key].(string); ok {
		return v
	}
	return ""
}
