package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/v0xg/repscout/internal/ai"
	"github.com/v0xg/repscout/internal/browser"
	"github.com/v0xg/repscout/internal/config"
	"github.com/v0xg/repscout/internal/export"
	"github.com/v0xg/repscout/internal/pipeline"
)

var (
	cfgFile  string
	output   string
	firmName string
	maxDepth int
	maxLinks int
	provider string
	model    string
	settleMs int
	verbose  bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "repscout <url> [url...]",
		Short: "Extract product and brand line sheets from rep firm websites",
		Long: `repscout crawls a rep firm website, picks the pages most likely to
hold product/brand data, extracts draft product records, reconciles
logo-only branding with the products near it, and writes the normalized
rows to an Excel workbook.

Example:
  repscout "https://acme-controls.com" --firm "Acme Controls"`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ./repscout.yaml)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output filename (default: standardized name under the output dir)")
	rootCmd.Flags().StringVar(&firmName, "firm", "", "Known rep firm name (default: derived from the URL)")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Crawl depth limit")
	rootCmd.Flags().IntVar(&maxLinks, "max-links", 0, "Max links collected per page")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Oracle provider: claude, openai (default: from config or claude)")
	rootCmd.Flags().StringVar(&model, "model", "", "Specific model override")
	rootCmd.Flags().IntVar(&settleMs, "settle", 0, "Page settle delay in milliseconds")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	logger := newLogger()
	defer logger.Sync()

	// Oracle credentials are a startup failure; report before any
	// network activity begins.
	oracle, err := ai.NewProvider(cfg.Oracle.Provider, cfg.Oracle.Model)
	if err != nil {
		return fmt.Errorf("oracle init failed: %w", err)
	}
	oracle = ai.Throttle(oracle, cfg.Oracle.RequestsPerSecond)

	fmt.Printf("→ Starting browser session... ")
	session, err := browser.Open(browser.Options{
		SettleDelay: cfg.Crawler.SettleDelay,
		Timeout:     cfg.Crawler.PageTimeout,
	})
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("browser session failed: %w", err)
	}
	defer session.Close()
	fmt.Println("done")

	pipe := pipeline.New(session, oracle, logger, pipeline.Options{
		MaxDepth:        cfg.Crawler.MaxDepth,
		MaxLinksPerPage: cfg.Crawler.MaxLinksPerPage,
	})

	fmt.Printf("→ Scraping %d site(s)...\n", len(args))
	batch, err := pipe.ScrapeBatch(ctx, args, firmName)
	if err != nil {
		return err
	}
	for _, f := range batch.Firms {
		fmt.Printf("  %s: %d links, %d pages scraped, %d records\n",
			f.FirmName, f.LinksFound, f.PagesScraped, len(f.Records))
	}

	fmt.Printf("→ Writing workbook... ")
	path, err := export.Write(batch.Records, outputPath(cfg, batch))
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Println("done")

	fmt.Printf("✓ Saved to %s\n", path)
	fmt.Printf("✓ Total products found: %d\n", len(batch.Records))
	if len(batch.Records) == 0 {
		fmt.Println("⚠ No product data extracted, but the workbook with headers is available")
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if maxDepth > 0 {
		cfg.Crawler.MaxDepth = maxDepth
	}
	if maxLinks > 0 {
		cfg.Crawler.MaxLinksPerPage = maxLinks
	}
	if settleMs > 0 {
		cfg.Crawler.SettleDelay = time.Duration(settleMs) * time.Millisecond
	}
	if provider != "" {
		cfg.Oracle.Provider = provider
	}
	if model != "" {
		cfg.Oracle.Model = model
	}
}

func newLogger() *zap.Logger {
	zc := zap.NewDevelopmentConfig()
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func outputPath(cfg *config.Config, batch *pipeline.BatchResult) string {
	if output != "" {
		return output
	}

	opts := export.NameOptions{Type: export.FileSingle}
	if len(batch.Firms) > 0 {
		opts.RepFirmName = batch.Firms[0].FirmName
	}
	if batch.TotalCount > 1 {
		opts = export.NameOptions{
			Type:         export.FileConsolidated,
			BatchSize:    batch.TotalCount,
			SuccessCount: batch.SuccessCount,
			TotalCount:   batch.TotalCount,
		}
	}

	filename := export.Filename(opts)
	fileType := opts.Type
	return export.OutputPath(cfg.Output.Dir, filename, fileType)
}
