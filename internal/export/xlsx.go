package export

import (
	"fmt"
	"os"
	"path/filepath"

	"steamweb-prices/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Prices"

// WriteXLSX dumps the full normalized table as a spreadsheet.
func WriteXLSX(path string, rows []models.NormalizedItemRow) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = fullRecord(r)
	}
	return writeXLSX(path, fullHeader, records)
}

// WriteMinimalXLSX dumps the minimal projection as a spreadsheet.
func WriteMinimalXLSX(path string, rows []models.MinimalItemRow) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = minimalRecord(r)
	}
	return writeXLSX(path, minimalHeader, records)
}

func writeXLSX(path string, header []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, record := range records {
		if err := setRow(f, i+2, record); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, record []string) error {
	cellName, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}

	// Empty cells stay empty instead of holding "".
	values := make([]interface{}, len(record))
	for i, v := range record {
		if v == "" {
			values[i] = nil
		} else {
			values[i] = v
		}
	}

	if err := f.SetSheetRow(sheetName, cellName, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
