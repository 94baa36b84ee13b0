// Package normalizer splits compound product and space fields into
// atomic rows and merges rows across pages.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/v0xg/repscout/internal/record"
)

var (
	productSeps = regexp.MustCompile(`[,;]|\sand\s`)
	spaceSeps   = regexp.MustCompile(`[/,;]|\sand\s`)
)

// minTokenLen drops splinters like "etc" leftovers and stray
// abbreviations after splitting.
const minTokenLen = 3

// Normalize expands each record into the Cartesian product of its
// product tokens and space tokens. Normalizing an already-normalized
// set yields the same set.
func Normalize(records []record.ProductSpace) []record.ProductSpace {
	var out []record.ProductSpace
	for _, r := range records {
		products := splitField(r.ProductCovered, productSeps)
		spaces := splitField(r.ProductSpace, spaceSeps)

		for _, p := range products {
			for _, s := range spaces {
				row := r
				row.ProductCovered = p
				row.ProductSpace = s
				out = append(out, row)
			}
		}
	}
	return out
}

// splitField tokenizes a compound field value. When splitting yields
// nothing, the original (possibly empty) value stands as the single
// token.
func splitField(value string, seps *regexp.Regexp) []string {
	var tokens []string
	for _, t := range seps.Split(value, -1) {
		t = strings.TrimSpace(t)
		if len(t) >= minTokenLen {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return []string{value}
	}
	return tokens
}

// Aggregate concatenates rows in page-processing order, collapsing
// rows that exactly duplicate an earlier one.
func Aggregate(pages ...[]record.ProductSpace) []record.ProductSpace {
	var out []record.ProductSpace
	seen := make(map[record.ProductSpace]bool)
	for _, rows := range pages {
		for _, r := range rows {
			if seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
