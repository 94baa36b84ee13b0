// Package pipeline wires the crawl, selection, classification,
// extraction, association, and normalization stages into one run.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/associator"
	"github.com/v0xg/repscout/internal/browser"
	"github.com/v0xg/repscout/internal/classifier"
	"github.com/v0xg/repscout/internal/crawler"
	"github.com/v0xg/repscout/internal/extractor"
	"github.com/v0xg/repscout/internal/normalizer"
	"github.com/v0xg/repscout/internal/record"
	"github.com/v0xg/repscout/internal/selector"
)

// Options bounds one pipeline run.
type Options struct {
	MaxDepth        int
	MaxLinksPerPage int
}

// Pipeline owns the single rendering session and oracle handle used by
// every stage. Stages run strictly sequentially: the browser tab can
// only be at one URL at a time.
type Pipeline struct {
	fetcher browser.Fetcher
	oracle  ai.Provider
	logger  *zap.Logger
	opts    Options
}

// New assembles a pipeline. Zero option fields get the defaults used
// for typical rep firm sites.
func New(fetcher browser.Fetcher, oracle ai.Provider, logger *zap.Logger, opts Options) *Pipeline {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = 2
	}
	if opts.MaxLinksPerPage == 0 {
		opts.MaxLinksPerPage = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, oracle: oracle, logger: logger, opts: opts}
}

// FirmResult is the outcome of scraping one root URL.
type FirmResult struct {
	URL          string
	FirmName     string
	Records      []record.ProductSpace
	LinksFound   int
	PagesVisited int
	PagesScraped int
}

// ScrapeFirm runs the full pipeline against one site. firmName may be
// empty, in which case it is derived from the root URL's host. No
// failure inside a single page's processing terminates the run; the
// only error returned is context cancellation.
func (p *Pipeline) ScrapeFirm(ctx context.Context, rootURL, firmName string) (*FirmResult, error) {
	if firmName == "" {
		firmName = FirmNameFromURL(rootURL)
	}
	log := p.logger.With(zap.String("firm", firmName), zap.String("root", rootURL))

	result := &FirmResult{URL: rootURL, FirmName: firmName}

	links, visited := crawler.Crawl(p.fetcher, rootURL, crawler.Options{
		MaxDepth:        p.opts.MaxDepth,
		MaxLinksPerPage: p.opts.MaxLinksPerPage,
	}, log)
	result.LinksFound = len(links)
	result.PagesVisited = visited

	if len(links) == 0 {
		log.Warn("no links found on the website")
		return result, ctx.Err()
	}

	pages := selector.Select(ctx, p.oracle, links, rootURL, firmName, log)
	log.Info("pages selected for scraping", zap.Int("count", len(pages)))

	var perPage [][]record.ProductSpace
	for _, pageURL := range pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rows := p.scrapePage(ctx, pageURL, firmName, log)
		perPage = append(perPage, normalizer.Normalize(rows))
		result.PagesScraped++
	}

	result.Records = normalizer.Aggregate(perPage...)
	log.Info("firm scrape complete",
		zap.Int("records", len(result.Records)),
		zap.Int("pages", result.PagesScraped))

	return result, ctx.Err()
}

// scrapePage classifies one page and runs the matching extraction
// strategy. Any failure collapses to an empty row set for this page.
func (p *Pipeline) scrapePage(ctx context.Context, pageURL, firmName string, log *zap.Logger) []record.ProductSpace {
	page, err := p.fetcher.Fetch(pageURL)
	if err != nil {
		log.Warn("page scrape failed, skipping",
			zap.String("url", pageURL), zap.Error(err))
		return nil
	}

	profile := classifier.Classify(ctx, p.oracle, page, log)
	drafts := extractor.Extract(ctx, p.oracle, page.PlainText, firmName, log)

	switch profile.StructureType {
	case classifier.TextProductsImageBrand, classifier.Mixed:
		return associator.Associate(ctx, p.oracle, page, drafts, firmName, log)
	default:
		rows := make([]record.ProductSpace, 0, len(drafts))
		for _, d := range drafts {
			rows = append(rows, record.FromDraft(d))
		}
		return rows
	}
}

// BatchResult is the outcome of scraping several root URLs.
type BatchResult struct {
	Records      []record.ProductSpace
	Firms        []*FirmResult
	SuccessCount int
	TotalCount   int
}

// ScrapeBatch scrapes every root URL in order and consolidates the
// record sets. A firm counts as a success when it yielded at least one
// record; failures never stop the batch.
func (p *Pipeline) ScrapeBatch(ctx context.Context, rootURLs []string, firmName string) (*BatchResult, error) {
	batch := &BatchResult{TotalCount: len(rootURLs)}

	var perFirm [][]record.ProductSpace
	for _, u := range rootURLs {
		res, err := p.ScrapeFirm(ctx, u, firmName)
		if res != nil {
			batch.Firms = append(batch.Firms, res)
			perFirm = append(perFirm, res.Records)
			if len(res.Records) > 0 {
				batch.SuccessCount++
			}
		}
		if err != nil {
			return batch, err
		}
	}

	batch.Records = normalizer.Aggregate(perFirm...)
	return batch, nil
}
