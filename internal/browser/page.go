// Package browser adapts a headless rendering session into the plain
// page view the rest of the pipeline consumes.
package browser

// Anchor is one anchor element as rendered on a page.
type Anchor struct {
	Href string
	Text string
}

// ImageMeta describes one rendered img element. Width and Height come
// from the element attributes; 0 means the attribute was absent or not
// numeric, and such images are never treated as icons.
type ImageMeta struct {
	Src         string
	AltText     string
	TitleText   string
	Width       int
	Height      int
	IsClickable bool
	LinkTarget  string
	ContextText string
}

// Page is the rendered view of one URL.
type Page struct {
	URL       string
	PlainText string
	RawMarkup string
	Anchors   []Anchor
	Images    []ImageMeta
}

// Fetcher loads one URL at a time and returns its rendered view. The
// live implementation is Session; tests substitute their own.
type Fetcher interface {
	Fetch(url string) (*Page, error)
}
