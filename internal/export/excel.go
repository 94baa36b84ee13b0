// Package export writes the final record set as an Excel workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/v0xg/repscout/internal/record"
)

const sheetName = "Sheet1"

// Headers is the fixed export column order.
var Headers = []string{"Rep Firm Name", "Brand Carried", "Product Covered", "Space"}

// Write saves records to an .xlsx workbook at path and returns the
// absolute path. The header row is always present, even for an empty
// record set.
func Write(records []record.ProductSpace, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for col, h := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return "", err
		}
	}

	for i, r := range records {
		row := []string{r.RepFirmName, r.BrandCarried, r.ProductCovered, r.ProductSpace}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
