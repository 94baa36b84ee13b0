package associator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/browser"
	"github.com/v0xg/repscout/internal/record"
)

// scriptedOracle routes by prompt content so a single stub can serve
// both the context probe and the association call.
type scriptedOracle struct {
	contextResp   string
	contextErr    error
	associateResp string
	associateErr  error
}

func (s *scriptedOracle) Complete(_ context.Context, req ai.Request) (string, error) {
	if strings.Contains(req.Prompt, "surrounding a brand logo image") {
		return s.contextResp, s.contextErr
	}
	return s.associateResp, s.associateErr
}

func brandWallPage() *browser.Page {
	return &browser.Page{
		URL:       "https://acme.com/brands",
		PlainText: "FlowTech centrifugal pumps. AerMax fine bubble diffusers.",
		Images: []browser.ImageMeta{
			{
				Src:         "https://acme.com/logos/one.png",
				Width:       120,
				Height:      60,
				IsClickable: true,
				LinkTarget:  "https://acme.com/brands/flowtech-industries",
			},
			{
				Src:     "https://acme.com/logos/aermax-logo.png",
				AltText: "AerMax",
				Width:   100,
				Height:  50,
			},
		},
	}
}

func drafts() []record.DraftProduct {
	return []record.DraftProduct{
		{RepFirmName: "Acme", BrandCarried: "", ProductCovered: "Centrifugal Pumps", ProductSpace: "Flow Control"},
		{RepFirmName: "Acme", BrandCarried: "", ProductCovered: "Diffusers", ProductSpace: "Aeration"},
	}
}

func TestAssociateExpandsProductsPerBrand(t *testing.T) {
	oracle := &scriptedOracle{
		associateResp: `[
  {"product": "Centrifugal Pumps", "brands": ["FlowTech Industries", "PumpCo"], "confidence": "HIGH"},
  {"product": "something unrelated", "brands": ["Nobody"], "confidence": "LOW"}
]`,
	}

	out := Associate(context.Background(), oracle, brandWallPage(), drafts(), "Acme", zap.NewNop())

	require.Len(t, out, 3)
	assert.Equal(t, "FlowTech Industries", out[0].BrandCarried)
	assert.Equal(t, record.ConfidenceHigh, out[0].Confidence)
	assert.Equal(t, "PumpCo", out[1].BrandCarried)
	assert.Equal(t, "Centrifugal Pumps", out[1].ProductCovered)

	// The unmatched draft passes through unchanged, confidence absent.
	assert.Equal(t, "Diffusers", out[2].ProductCovered)
	assert.Empty(t, out[2].BrandCarried)
	assert.Empty(t, out[2].Confidence)
}

func TestAssociateMatchesSubstringEitherDirection(t *testing.T) {
	oracle := &scriptedOracle{
		associateResp: `[{"product": "pumps", "brands": ["FlowTech"], "confidence": "medium"}]`,
	}

	out := Associate(context.Background(), oracle, brandWallPage(),
		[]record.DraftProduct{{RepFirmName: "Acme", ProductCovered: "Centrifugal Pumps"}},
		"Acme", zap.NewNop())

	require.Len(t, out, 1)
	assert.Equal(t, "FlowTech", out[0].BrandCarried)
	assert.Equal(t, record.ConfidenceMedium, out[0].Confidence)
}

func TestAssociateFallbackOnOracleFailure(t *testing.T) {
	oracle := &scriptedOracle{associateErr: errors.New("timeout")}

	in := []record.DraftProduct{
		// Has a usable brand already: kept as-is.
		{RepFirmName: "Acme", BrandCarried: "KeptBrand", ProductCovered: "Valves", ProductSpace: "Flow Control"},
		// Brandless, but a candidate name appears in the product text.
		{RepFirmName: "Acme", BrandCarried: "", ProductCovered: "AerMax diffuser grids", ProductSpace: "Aeration"},
		// Brandless with no match: passes through unchanged.
		{RepFirmName: "Acme", BrandCarried: "", ProductCovered: "Chemical Feed Skids", ProductSpace: "Chemical Feed"},
	}

	out := Associate(context.Background(), oracle, brandWallPage(), in, "Acme", zap.NewNop())

	require.GreaterOrEqual(t, len(out), 4)

	assert.Equal(t, "KeptBrand", out[0].BrandCarried)
	assert.Empty(t, out[0].Confidence)

	assert.Equal(t, "AerMax", out[1].BrandCarried)
	assert.Equal(t, record.ConfidenceLow, out[1].Confidence)

	assert.Equal(t, "Chemical Feed Skids", out[2].ProductCovered)
	assert.Empty(t, out[2].BrandCarried)

	// Every detected brand not already represented gets a standalone
	// low-confidence row.
	var standalone []record.ProductSpace
	for _, r := range out[3:] {
		standalone = append(standalone, r)
	}
	require.Len(t, standalone, 1)
	assert.Equal(t, "Flowtech Industries", standalone[0].BrandCarried)
	assert.Equal(t, "General equipment line", standalone[0].ProductCovered)
	assert.Equal(t, "General", standalone[0].ProductSpace)
	assert.Equal(t, record.ConfidenceLow, standalone[0].Confidence)
}

func TestAssociateFallbackOnUnparseableAnswer(t *testing.T) {
	oracle := &scriptedOracle{associateResp: "they all belong together"}

	out := Associate(context.Background(), oracle, brandWallPage(),
		[]record.DraftProduct{{RepFirmName: "Acme", BrandCarried: "KeptBrand", ProductCovered: "Valves"}},
		"Acme", zap.NewNop())

	// Fallback path: the draft survives and both detected brands are
	// emitted standalone.
	require.Len(t, out, 3)
	assert.Equal(t, "KeptBrand", out[0].BrandCarried)
}

func TestAssociatePassThroughWithoutCandidates(t *testing.T) {
	oracle := &scriptedOracle{}
	page := &browser.Page{URL: "https://acme.com/x", PlainText: "text only"}

	in := drafts()
	out := Associate(context.Background(), oracle, page, in, "Acme", zap.NewNop())

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, record.FromDraft(in[i]), out[i])
	}
}
