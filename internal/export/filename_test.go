package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var stamp = time.Date(2026, 8, 26, 15, 12, 33, 0, time.UTC)

func TestFilenameSingle(t *testing.T) {
	got := Filename(NameOptions{
		Type:        FileSingle,
		RepFirmName: "Acme Controls, Inc.",
		Now:         stamp,
	})
	assert.Equal(t, "SINGLE_Acme_Controls_Inc_20260826_151233.xlsx", got)
}

func TestFilenameBatchRates(t *testing.T) {
	tests := []struct {
		name    string
		success int
		total   int
		want    string
	}{
		{"all succeeded", 5, 5, "BATCH_5_URLs_100pct_SUCCESS_20260826_151233.xlsx"},
		{"partial", 4, 5, "BATCH_5_URLs_80pct_PARTIAL_20260826_151233.xlsx"},
		{"exactly half", 1, 2, "BATCH_2_URLs_50pct_PARTIAL_20260826_151233.xlsx"},
		{"mostly failed", 1, 5, "BATCH_5_URLs_20pct_FAILED_20260826_151233.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(NameOptions{
				Type:         FileBatch,
				BatchSize:    tt.total,
				SuccessCount: tt.success,
				TotalCount:   tt.total,
				Now:          stamp,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameConsolidatedWithSuffix(t *testing.T) {
	got := Filename(NameOptions{
		Type:         FileConsolidated,
		BatchSize:    3,
		SuccessCount: 3,
		TotalCount:   3,
		Suffix:       "merged",
		Now:          stamp,
	})
	assert.Equal(t, "CONSOLIDATED_3_URLs_100pct_SUCCESS_20260826_151233_merged.xlsx", got)
}

func TestFilenameIgnoresFirmNameForBatch(t *testing.T) {
	got := Filename(NameOptions{Type: FileBatch, RepFirmName: "Acme", Now: stamp})
	assert.Equal(t, "BATCH_20260826_151233.xlsx", got)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("rep_firm_data", "single_scrapes", "a.xlsx"),
		OutputPath("rep_firm_data", "a.xlsx", FileSingle))
	assert.Equal(t,
		filepath.Join("rep_firm_data", "batch_scrapes", "b.xlsx"),
		OutputPath("rep_firm_data", "b.xlsx", FileBatch))
	assert.Equal(t,
		filepath.Join("rep_firm_data", "consolidated_results", "c.xlsx"),
		OutputPath("rep_firm_data", "c.xlsx", FileConsolidated))
}
