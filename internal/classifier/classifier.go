// Package classifier labels a page's text/image mix so the pipeline
// can pick an extraction strategy.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/browser"
)

// StructureType is the page layout category driving extraction.
type StructureType string

const (
	TextOnly               StructureType = "TEXT_ONLY"
	TextProductsImageBrand StructureType = "TEXT_PRODUCTS_IMAGE_BRANDS"
	Mixed                  StructureType = "MIXED"
)

// Profile is the classification result for one page. It is consumed
// immediately and never persisted.
type Profile struct {
	StructureType        StructureType `json:"structure_type"`
	ExtractionStrategy   string        `json:"extraction_strategy"`
	HasClickableBrands   bool          `json:"has_clickable_brand_images"`
	ClickableBrandImages []string      `json:"brand_images_with_links"`
	RecommendedApproach  string        `json:"recommended_approach"`
}

const (
	textPreviewLimit   = 2000
	markupPreviewLimit = 5000
	maxImageSummaries  = 20

	// Attribute sizes below this on both axes mark an image as an
	// icon; images without size attributes are kept.
	iconSizeThreshold = 30
)

const classifyPrompt = `I'm analyzing a rep firm website page to understand its structure for product/brand extraction.

PAGE URL: %s

TEXT CONTENT PREVIEW (first 2000 chars):
%s

IMAGE ELEMENTS FOUND:
%s

FULL HTML SOURCE (for detailed analysis):
%s

Please analyze this page structure and determine:

1. **Data Format Type**:
   - "TEXT_ONLY": Products and brands are all in text format
   - "TEXT_PRODUCTS_IMAGE_BRANDS": Products in text, brands shown as images/logos
   - "MIXED": Combination of both approaches

2. **Brand Extraction Strategy**:
   - If TEXT_ONLY: Use normal text scraping
   - If TEXT_PRODUCTS_IMAGE_BRANDS:
     * Check if brand images have clickable links (extract brand names from URLs)
     * If no links, use OCR to read brand names from images
   - If MIXED: Use combination approach

3. **Image Link Analysis**:
   - Are brand logos clickable (have href attributes)?
   - Do the image links contain brand names in the URL?
   - Are there alt/title attributes with brand names?

Return your analysis in this exact JSON format:
{
    "structure_type": "TEXT_ONLY|TEXT_PRODUCTS_IMAGE_BRANDS|MIXED",
    "extraction_strategy": "TEXT_SCRAPING|IMAGE_LINK_EXTRACTION|OCR|COMBINATION",
    "has_clickable_brand_images": true/false,
    "brand_images_with_links": ["list of image URLs that are clickable"],
    "recommended_approach": "detailed explanation of how to extract data"
}`

// textScrapingProfile is the cheapest strategy; any classification
// failure narrows to it rather than blocking extraction.
func textScrapingProfile() Profile {
	return Profile{
		StructureType:       TextOnly,
		ExtractionStrategy:  "TEXT_SCRAPING",
		RecommendedApproach: "Standard text scraping (fallback)",
	}
}

// Classify asks the oracle to label the page's structure. It never
// fails: on oracle error or unparseable output it returns the
// plain-text profile.
func Classify(ctx context.Context, oracle ai.Provider, page *browser.Page, logger *zap.Logger) Profile {
	resp, err := oracle.Complete(ctx, ai.Request{
		Prompt:      buildClassifyPrompt(page),
		MaxTokens:   1000,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("structure analysis failed, defaulting to text scraping",
			zap.String("url", page.URL), zap.Error(err))
		return textScrapingProfile()
	}

	var profile Profile
	if err := ai.ExtractJSONObject(resp, &profile); err != nil {
		logger.Warn("could not parse structure analysis, defaulting to text scraping",
			zap.String("url", page.URL), zap.Error(err))
		return textScrapingProfile()
	}

	switch profile.StructureType {
	case TextOnly, TextProductsImageBrand, Mixed:
	default:
		logger.Warn("unknown structure type, defaulting to text scraping",
			zap.String("url", page.URL),
			zap.String("structure_type", string(profile.StructureType)))
		return textScrapingProfile()
	}

	logger.Info("page structure classified",
		zap.String("url", page.URL),
		zap.String("structure_type", string(profile.StructureType)),
		zap.String("strategy", profile.ExtractionStrategy))

	return profile
}

func buildClassifyPrompt(page *browser.Page) string {
	var summaries []string
	for _, img := range page.Images {
		if IsIcon(img) {
			continue
		}
		if len(summaries) == maxImageSummaries {
			break
		}
		summaries = append(summaries, fmt.Sprintf(
			"Image %d: src=%s, alt='%s', title='%s', parent_link=%s, context='%s'",
			len(summaries)+1,
			truncate(img.Src, 50),
			img.AltText,
			img.TitleText,
			img.LinkTarget,
			truncate(img.ContextText, 100)))
	}

	return fmt.Sprintf(classifyPrompt,
		page.URL,
		truncate(page.PlainText, textPreviewLimit),
		strings.Join(summaries, "\n"),
		truncate(page.RawMarkup, markupPreviewLimit))
}

// IsIcon reports whether an image's declared size marks it as an
// icon rather than a plausible brand logo.
func IsIcon(img browser.ImageMeta) bool {
	if img.Width == 0 || img.Height == 0 {
		return false
	}
	return img.Width < iconSizeThreshold && img.Height < iconSizeThreshold
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
