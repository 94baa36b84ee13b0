// Package crawler walks a site breadth-first and records every unique
// link it can see, up to a depth bound.
package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/browser"
)

// Link is one discovered anchor. Identity is the exact Href string;
// links are never deleted, only the page they came from gets marked
// visited.
type Link struct {
	Href       string
	Text       string
	Depth      int
	SourcePage string
}

// Options bounds a crawl. Both limits must be finite for the crawl to
// terminate.
type Options struct {
	MaxDepth        int
	MaxLinksPerPage int
}

// Asset extensions that are never worth expanding or recording.
var skipExtensions = []string{
	".pdf", ".jpg", ".png", ".gif", ".zip", ".doc", ".docx", ".css", ".js",
}

type queueEntry struct {
	href  string
	depth int
}

// Crawl walks the site under rootURL breadth-first and returns the
// deduplicated links it found plus the number of pages visited.
//
// Pages at MaxDepth are fetched and have their links recorded but are
// not expanded further. A fetch failure on any one page yields zero
// links for that page and the crawl continues.
func Crawl(fetcher browser.Fetcher, rootURL string, opts Options, logger *zap.Logger) ([]Link, int) {
	rootHost := HostOf(rootURL)

	var links []Link
	seen := make(map[string]bool)    // hrefs already in the result
	visited := make(map[string]bool) // pages already fetched
	enqueued := map[queueEntry]bool{{rootURL, 0}: true}
	queue := []queueEntry{{rootURL, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if visited[cur.href] || cur.depth > opts.MaxDepth {
			continue
		}
		visited[cur.href] = true

		logger.Debug("extracting links",
			zap.String("url", cur.href),
			zap.Int("depth", cur.depth))

		page, err := fetcher.Fetch(cur.href)
		if err != nil {
			logger.Warn("page fetch failed, skipping",
				zap.String("url", cur.href),
				zap.Error(err))
			continue
		}

		accepted := 0
		for _, a := range page.Anchors {
			if accepted >= opts.MaxLinksPerPage {
				break
			}

			href := strings.TrimSpace(a.Href)
			if !crawlable(href) {
				continue
			}
			if seen[href] {
				continue
			}

			if SameHost(rootHost, href) {
				// Internal links are kept regardless of visible text
				// and are eligible for expansion.
				text := a.Text
				if text == "" {
					text = fmt.Sprintf("Link_%d", accepted)
				}
				links = append(links, Link{Href: href, Text: text, Depth: cur.depth, SourcePage: cur.href})
				seen[href] = true
				accepted++

				if cur.depth < opts.MaxDepth && !visited[href] {
					e := queueEntry{href, cur.depth + 1}
					if !enqueued[e] {
						enqueued[e] = true
						queue = append(queue, e)
					}
				}
			} else if a.Text != "" && len(a.Text) < 100 {
				// External links need human-scale anchor text and are
				// never expanded.
				links = append(links, Link{Href: href, Text: a.Text, Depth: cur.depth, SourcePage: cur.href})
				seen[href] = true
				accepted++
			}
		}
	}

	logger.Info("link extraction complete",
		zap.Int("links", len(links)),
		zap.Int("pages", len(visited)),
		zap.Int("max_depth", opts.MaxDepth))

	return links, len(visited)
}

// crawlable rejects non-HTTP(S) targets and common binary assets.
func crawlable(href string) bool {
	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	lower := strings.ToLower(href)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}

// HostOf returns the lowercased host of rawURL, or "" when it does
// not parse.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// SameHost reports whether href points at host, tolerating a www.
// prefix on either side.
func SameHost(host, href string) bool {
	h := HostOf(href)
	if h == "" || host == "" {
		return false
	}
	return strings.TrimPrefix(h, "www.") == strings.TrimPrefix(host, "www.")
}
