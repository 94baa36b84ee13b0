package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FileType selects the naming scheme and output subdirectory.
type FileType string

const (
	FileSingle       FileType = "single"
	FileBatch        FileType = "batch"
	FileConsolidated FileType = "consolidated"
)

// NameOptions feeds the standardized filename generator.
type NameOptions struct {
	Type         FileType
	RepFirmName  string // single scrapes only
	BatchSize    int    // batch/consolidated scrapes
	SuccessCount int
	TotalCount   int
	Suffix       string
	Now          time.Time // zero value means time.Now
}

var (
	nonNameChars = regexp.MustCompile(`[^\w\s-]`)
	nameSpacers  = regexp.MustCompile(`[-\s]+`)
)

// Filename builds a standardized workbook name like
// SINGLE_Acme_Controls_20260826_151233.xlsx or
// BATCH_5_URLs_80pct_PARTIAL_20260826_151233.xlsx.
func Filename(opts NameOptions) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var components []string

	switch opts.Type {
	case FileSingle:
		components = append(components, "SINGLE")
	case FileBatch:
		components = append(components, "BATCH")
	case FileConsolidated:
		components = append(components, "CONSOLIDATED")
	}

	if opts.RepFirmName != "" && opts.Type == FileSingle {
		clean := nonNameChars.ReplaceAllString(opts.RepFirmName, "")
		clean = strings.Trim(nameSpacers.ReplaceAllString(clean, "_"), "_")
		if clean != "" {
			components = append(components, clean)
		}
	}

	if opts.BatchSize > 0 && opts.Type != FileSingle {
		components = append(components, fmt.Sprintf("%d_URLs", opts.BatchSize))
	}

	if opts.TotalCount > 0 {
		rate := opts.SuccessCount * 100 / opts.TotalCount
		status := "FAILED"
		switch {
		case rate == 100:
			status = "SUCCESS"
		case rate >= 50:
			status = "PARTIAL"
		}
		components = append(components, fmt.Sprintf("%dpct_%s", rate, status))
	}

	components = append(components, now.Format("20060102_150405"))

	if opts.Suffix != "" {
		components = append(components, opts.Suffix)
	}

	return strings.Join(components, "_") + ".xlsx"
}

// OutputPath places a filename inside the organized output tree.
func OutputPath(baseDir, filename string, fileType FileType) string {
	sub := ""
	switch fileType {
	case FileSingle:
		sub = "single_scrapes"
	case FileBatch:
		sub = "batch_scrapes"
	case FileConsolidated:
		sub = "consolidated_results"
	}
	return filepath.Join(baseDir, sub, filename)
}
