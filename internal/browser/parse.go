package browser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParsePage derives the pipeline's view of a page from its rendered
// markup. It has no judgment logic of its own, which keeps it usable
// against static fixtures in tests. Anchor hrefs and image sources are
// resolved against pageURL, matching what a rendering engine reports.
func ParsePage(pageURL, markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %s: %w", pageURL, err)
	}

	page := &Page{
		URL:       pageURL,
		RawMarkup: markup,
		Anchors:   extractAnchors(doc, base),
		Images:    extractImages(doc, base),
	}
	page.PlainText = plainText(doc)

	return page, nil
}

func extractAnchors(doc *goquery.Document, base *url.URL) []Anchor {
	var anchors []Anchor
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		anchors = append(anchors, Anchor{
			Href: resolveRef(base, href),
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return anchors
}

func extractImages(doc *goquery.Document, base *url.URL) []ImageMeta {
	var images []ImageMeta
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		img := ImageMeta{
			Src:       resolveRef(base, s.AttrOr("src", "")),
			AltText:   strings.TrimSpace(s.AttrOr("alt", "")),
			TitleText: strings.TrimSpace(s.AttrOr("title", "")),
			Width:     attrInt(s, "width"),
			Height:    attrInt(s, "height"),
		}

		parent := s.Parent()
		if goquery.NodeName(parent) == "a" {
			if href, ok := parent.Attr("href"); ok {
				img.IsClickable = true
				img.LinkTarget = resolveRef(base, href)
			}
		}
		img.ContextText = contextText(parent)

		images = append(images, img)
	})
	return images
}

// contextText gathers the text around an image: its enclosing element
// plus up to three following siblings.
func contextText(parent *goquery.Selection) string {
	parts := []string{strings.TrimSpace(parent.Text())}
	parent.NextAll().EachWithBreak(func(i int, sib *goquery.Selection) bool {
		if i >= 3 {
			return false
		}
		if t := strings.TrimSpace(sib.Text()); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return collapseWhitespace(strings.Join(parts, " "))
}

// resolveRef absolutizes ref against the page URL. Unparseable values
// pass through untouched; judging them is the crawler's job.
func resolveRef(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func attrInt(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// plainText strips script/style content and collapses whitespace runs
// into single separators. Mutates doc, so call it after the element
// passes.
func plainText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
