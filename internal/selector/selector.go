// Package selector ranks discovered links down to the handful of pages
// worth deep-scraping.
package selector

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/crawler"
)

const (
	maxCandidateLinks = 100 // links submitted to the oracle
	maxSelectedPages  = 10
)

// Keyword fallback when the oracle yields nothing usable. Matching is
// whole-word, so "brand" does not select "/brands". The list is known
// to omit "manufacturer" even though the oracle prompt mentions
// manufacturer pages; confirm with stakeholders before changing it.
var fallbackKeywords = []string{
	"product", "equipment", "brand", "catalog", "line sheet",
}

const selectPrompt = `I'm analyzing a rep firm website (%s) to find pages containing product information, line sheets, or manufacturer catalogs.
Here are the links found on the website:
%s
For rep firm websites, product information is typically found on pages with:
1. Manufacturer/Brand pages: Pages listing manufacturers, brands, or product lines
2. Product category pages: Pages for specific equipment types (aerators, filters, pumps, etc.)
3. Application pages: Pages organized by water/wastewater treatment processes
4. Equipment pages: Pages with specific product listings
5. Catalog/Line sheet pages: Direct product catalogs
Please analyze these links and identify ALL URLs that are likely to contain detailed product information. Return a list of the most relevant URLs (one per line, up to 10). If you are unsure, err on the side of including more. Prefer links with keywords like manufacturers, products, equipment, brands, catalog, line sheet, etc. If no clear product pages are found, return the main website URL as a fallback. Do not return external links.`

// Select picks at most 10 internal pages likely to hold product data.
// The oracle ranks first; a deterministic keyword match covers oracle
// failure; the base URL itself is the last resort. Select only returns
// an empty list when links is empty.
func Select(ctx context.Context, oracle ai.Provider, links []crawler.Link, baseURL, firmName string, logger *zap.Logger) []string {
	if len(links) == 0 {
		return nil
	}

	baseHost := crawler.HostOf(baseURL)

	urls, err := askOracle(ctx, oracle, links, baseHost, firmName)
	if err != nil {
		logger.Warn("oracle page selection failed, using keyword fallback", zap.Error(err))
	} else if len(urls) > 0 {
		logger.Info("oracle selected pages", zap.Int("count", len(urls)))
		return urls
	} else {
		logger.Warn("oracle returned no usable URLs, using keyword fallback")
	}

	if fallback := keywordFallback(links, baseHost); len(fallback) > 0 {
		logger.Info("keyword fallback selected pages", zap.Int("count", len(fallback)))
		return fallback
	}

	return []string{baseURL}
}

func askOracle(ctx context.Context, oracle ai.Provider, links []crawler.Link, baseHost, firmName string) ([]string, error) {
	candidates := links
	if len(candidates) > maxCandidateLinks {
		candidates = candidates[:maxCandidateLinks]
	}

	var lines []string
	for _, l := range candidates {
		lines = append(lines, fmt.Sprintf("Link: '%s' -> %s (Depth: %d)", l.Text, l.Href, l.Depth))
	}

	resp, err := oracle.Complete(ctx, ai.Request{
		Prompt:      fmt.Sprintf(selectPrompt, firmName, strings.Join(lines, "\n")),
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	for _, u := range ai.ScanURLs(resp) {
		if !crawler.SameHost(baseHost, u) {
			continue
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
		if len(urls) == maxSelectedPages {
			break
		}
	}
	return urls, nil
}

func keywordFallback(links []crawler.Link, baseHost string) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, l := range links {
		if !matchesKeyword(l.Href) && !matchesKeyword(l.Text) {
			continue
		}
		if !crawler.SameHost(baseHost, l.Href) {
			continue
		}
		if seen[l.Href] {
			continue
		}
		seen[l.Href] = true
		urls = append(urls, l.Href)
		if len(urls) == maxSelectedPages {
			break
		}
	}
	return urls
}

var keywordPatterns = compileKeywords()

func compileKeywords() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(fallbackKeywords))
	for _, kw := range fallbackKeywords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return patterns
}

func matchesKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range keywordPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}
