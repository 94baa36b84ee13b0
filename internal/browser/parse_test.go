package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureMarkup = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Controls</title>
	<style>body { color: red; }</style>
	<script>console.log("ignore me");</script>
</head>
<body>
	<nav>
		<a href="/manufacturers">Our   Manufacturers</a>
		<a href="https://partner.example.com/catalog">Partner Catalog</a>
		<a>no href</a>
	</nav>
	<div>
		<a href="/brands/flowtech">
			<img src="/logos/flowtech-pumps.png" alt="FlowTech" width="120" height="60">
		</a>
		<p>FlowTech centrifugal pumps for clarification.</p>
	</div>
	<div>
		<img src="icon.svg" width="16" height="16">
		<img src="/logos/mystery.png" title="Mystery Corp">
	</div>
	<p>We   carry   pumps,
	valves and filters.</p>
</body>
</html>`

func TestParsePage(t *testing.T) {
	page, err := ParsePage("https://acme.com/line-card", fixtureMarkup)
	require.NoError(t, err)

	assert.Equal(t, "https://acme.com/line-card", page.URL)
	assert.Equal(t, fixtureMarkup, page.RawMarkup)

	t.Run("anchors resolved and trimmed", func(t *testing.T) {
		require.Len(t, page.Anchors, 3)
		assert.Equal(t, "https://acme.com/manufacturers", page.Anchors[0].Href)
		assert.Equal(t, "Our Manufacturers", page.Anchors[0].Text)
		assert.Equal(t, "https://partner.example.com/catalog", page.Anchors[1].Href)
		assert.Equal(t, "https://acme.com/brands/flowtech", page.Anchors[2].Href)
	})

	t.Run("images", func(t *testing.T) {
		require.Len(t, page.Images, 3)

		logo := page.Images[0]
		assert.Equal(t, "https://acme.com/logos/flowtech-pumps.png", logo.Src)
		assert.Equal(t, "FlowTech", logo.AltText)
		assert.Equal(t, 120, logo.Width)
		assert.Equal(t, 60, logo.Height)
		assert.True(t, logo.IsClickable)
		assert.Equal(t, "https://acme.com/brands/flowtech", logo.LinkTarget)

		icon := page.Images[1]
		assert.Equal(t, 16, icon.Width)
		assert.False(t, icon.IsClickable)

		titled := page.Images[2]
		assert.Equal(t, "Mystery Corp", titled.TitleText)
		assert.Zero(t, titled.Width)
		assert.Zero(t, titled.Height)
	})

	t.Run("plain text strips script and style and collapses whitespace", func(t *testing.T) {
		assert.NotContains(t, page.PlainText, "ignore me")
		assert.NotContains(t, page.PlainText, "color: red")
		assert.Contains(t, page.PlainText, "We carry pumps, valves and filters.")
	})
}

func TestParsePageContextText(t *testing.T) {
	markup := `<html><body>
	<div>
		<span><img src="/logos/aer.png" width="100" height="40"></span>
		<span>AerMax Systems</span>
		<span>Fine bubble aeration</span>
		<span>Diffusers</span>
		<span>too far away</span>
	</div>
	</body></html>`

	page, err := ParsePage("https://acme.com/", markup)
	require.NoError(t, err)
	require.Len(t, page.Images, 1)

	ctx := page.Images[0].ContextText
	assert.Contains(t, ctx, "AerMax Systems")
	assert.Contains(t, ctx, "Diffusers")
	assert.NotContains(t, ctx, "too far away")
}

func TestParsePageBadURL(t *testing.T) {
	_, err := ParsePage("://not-a-url", "<html></html>")
	assert.Error(t, err)
}
