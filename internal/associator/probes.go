package associator

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/browser"
	"github.com/v0xg/repscout/internal/classifier"
)

// ExtractionMethod records which probe produced a brand candidate.
type ExtractionMethod string

const (
	MethodImageAnalysis ExtractionMethod = "IMAGE_ANALYSIS"
	MethodOCRAI         ExtractionMethod = "OCR_AI"
)

// BrandCandidate is a brand-name guess derived from one image. It
// exists only within a single page's processing pass.
type BrandCandidate struct {
	BrandName        string
	ImageURL         string
	LinkURL          string
	ContextText      string
	IsClickable      bool
	ExtractionMethod ExtractionMethod
}

// Link targets containing these tokens are assumed to point at a brand
// page worth mining for a name.
var brandLinkKeywords = []string{"brand", "manufacturer", "company"}

const contextPrompt = `I'm analyzing text surrounding a brand logo image on a rep firm website.

Surrounding text: "%s"

Please identify any brand names or manufacturer names in this text.
Return only the brand name, or "UNKNOWN" if no clear brand is mentioned.
Focus on water/wastewater treatment equipment manufacturers.`

// ExtractBrandCandidates derives one candidate per sufficiently large
// image on the page. Each image runs through a strict priority chain
// of probes; the first probe that yields a name wins, and images where
// every probe misses are dropped.
func ExtractBrandCandidates(ctx context.Context, oracle ai.Provider, page *browser.Page, logger *zap.Logger) []BrandCandidate {
	var candidates []BrandCandidate

	for _, img := range page.Images {
		if classifier.IsIcon(img) {
			continue
		}

		name, method := probeLinkKeyword(img), MethodImageAnalysis
		if name == "" {
			name = img.AltText
		}
		if name == "" {
			name = img.TitleText
		}
		if name == "" {
			name = probeFilename(img)
		}
		if name == "" && img.ContextText != "" {
			name = probeContext(ctx, oracle, img, logger)
			if name != "" {
				method = MethodOCRAI
			}
		}
		if name == "" {
			continue
		}

		candidates = append(candidates, BrandCandidate{
			BrandName:        name,
			ImageURL:         img.Src,
			LinkURL:          img.LinkTarget,
			ContextText:      img.ContextText,
			IsClickable:      img.IsClickable,
			ExtractionMethod: method,
		})
	}

	logger.Info("brand candidates extracted",
		zap.String("url", page.URL),
		zap.Int("count", len(candidates)))

	return candidates
}

// probeLinkKeyword mines the wrapping link's target for a brand name
// when the target looks like a brand page.
func probeLinkKeyword(img browser.ImageMeta) string {
	if !img.IsClickable || img.LinkTarget == "" {
		return ""
	}
	lower := strings.ToLower(img.LinkTarget)
	keyed := false
	for _, kw := range brandLinkKeywords {
		if strings.Contains(lower, kw) {
			keyed = true
			break
		}
	}
	if !keyed {
		return ""
	}

	u, err := url.Parse(img.LinkTarget)
	if err != nil {
		return ""
	}
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if seg := strings.TrimSpace(segments[i]); len(seg) > 2 {
			return cleanName(seg)
		}
	}
	return ""
}

// probeFilename falls back to the image filename minus its extension.
func probeFilename(img browser.ImageMeta) string {
	if img.Src == "" {
		return ""
	}
	parts := strings.Split(img.Src, "/")
	base := parts[len(parts)-1]
	stem := strings.SplitN(base, ".", 2)[0]
	if len(stem) <= 2 {
		return ""
	}
	return cleanName(stem)
}

// probeContext asks the oracle to name a manufacturer from the text
// around the image. The literal UNKNOWN token is an explicit no-match.
func probeContext(ctx context.Context, oracle ai.Provider, img browser.ImageMeta, logger *zap.Logger) string {
	resp, err := oracle.Complete(ctx, ai.Request{
		Prompt:      fmt.Sprintf(contextPrompt, img.ContextText),
		MaxTokens:   50,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Debug("context brand probe failed",
			zap.String("image", img.Src), zap.Error(err))
		return ""
	}
	name := strings.TrimSpace(resp)
	if name == "" || strings.ToUpper(name) == "UNKNOWN" {
		return ""
	}
	return name
}

// cleanName turns a URL or filename fragment into a presentable brand
// name guess.
func cleanName(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
