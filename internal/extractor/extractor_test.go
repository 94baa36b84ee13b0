package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/record"
)

type stubOracle struct {
	resp       string
	err        error
	lastPrompt string
}

func (s *stubOracle) Complete(_ context.Context, req ai.Request) (string, error) {
	s.lastPrompt = req.Prompt
	return s.resp, s.err
}

func TestExtractParsesRows(t *testing.T) {
	oracle := &stubOracle{resp: `Here is the extracted table:
[
  {"Rep Firm Name": "Acme Controls", "Brand Carried": "FlowTech", "Product Covered": "Centrifugal Pumps", "Product Space": "Flow Control"},
  {"Rep Firm Name": "Acme Controls", "Brand Carried": "AerMax", "Product Covered": "Fine Bubble Diffusers", "Product Space": "Aeration"}
]`}

	drafts := Extract(context.Background(), oracle, "page text", "Acme Controls", zap.NewNop())

	require.Len(t, drafts, 2)
	assert.Equal(t, record.DraftProduct{
		RepFirmName:    "Acme Controls",
		BrandCarried:   "FlowTech",
		ProductCovered: "Centrifugal Pumps",
		ProductSpace:   "Flow Control",
	}, drafts[0])
}

func TestExtractAcceptsSpaceKey(t *testing.T) {
	oracle := &stubOracle{resp: `[{"Rep Firm Name": "Acme", "Brand Carried": "FlowTech", "Product Covered": "Pumps", "Space": "Flow Control"}]`}

	drafts := Extract(context.Background(), oracle, "page text", "Acme", zap.NewNop())

	require.Len(t, drafts, 1)
	assert.Equal(t, "Flow Control", drafts[0].ProductSpace)
}

// Unstructured prose from the oracle yields exactly one fallback
// record, not one row per product it happens to mention.
func TestExtractFallbackOnUnstructuredAnswer(t *testing.T) {
	oracle := &stubOracle{resp: "Brand A carries pumps, valves, and filters"}

	drafts := Extract(context.Background(), oracle, "page text", "Acme Controls", zap.NewNop())

	require.Len(t, drafts, 1)
	assert.Equal(t, "Acme Controls", drafts[0].RepFirmName)
	assert.Equal(t, "Information not available on website", drafts[0].BrandCarried)
	assert.Equal(t, "Water/Wastewater Treatment Equipment", drafts[0].ProductCovered)
	assert.Equal(t, "General", drafts[0].ProductSpace)
}

func TestExtractFallbackOnOracleError(t *testing.T) {
	oracle := &stubOracle{err: errors.New("timeout")}
	drafts := Extract(context.Background(), oracle, "page text", "Acme", zap.NewNop())
	require.Len(t, drafts, 1)
	assert.Equal(t, "Acme", drafts[0].RepFirmName)
}

func TestExtractDropsUnusableEntries(t *testing.T) {
	oracle := &stubOracle{resp: `[
  {"Rep Firm Name": "Acme", "Brand Carried": "FlowTech", "Product Covered": "Pumps", "Product Space": "Flow Control"},
  {"Rep Firm Name": "", "Brand Carried": "", "Product Covered": "", "Product Space": ""},
  {"Rep Firm Name": 42, "Brand Carried": null, "Product Covered": ["nope"], "Product Space": {}}
]`}

	drafts := Extract(context.Background(), oracle, "page text", "Acme", zap.NewNop())

	require.Len(t, drafts, 1)
	assert.Equal(t, "FlowTech", drafts[0].BrandCarried)
}

func TestExtractFallbackWhenEveryEntryDropped(t *testing.T) {
	oracle := &stubOracle{resp: `[{"Rep Firm Name": ""}]`}
	drafts := Extract(context.Background(), oracle, "page text", "Acme", zap.NewNop())
	require.Len(t, drafts, 1)
	assert.Equal(t, "Information not available on website", drafts[0].BrandCarried)
}

func TestExtractBoundsContentPreview(t *testing.T) {
	oracle := &stubOracle{resp: `[{"Rep Firm Name": "Acme", "Brand Carried": "B", "Product Covered": "P", "Product Space": "S"}]`}

	long := make([]byte, 50000)
	for i := range long {
		long[i] = 'x'
	}
	Extract(context.Background(), oracle, string(long), "Acme", zap.NewNop())

	assert.Less(t, len(oracle.lastPrompt), 15000)
}
