package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"steamweb-prices/internal/models"
)

// WriteCSV dumps the full normalized table, one item per row.
func WriteCSV(path string, rows []models.NormalizedItemRow) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = fullRecord(r)
	}
	return writeCSV(path, fullHeader, records)
}

// WriteMinimalCSV dumps the minimal projection.
func WriteMinimalCSV(path string, rows []models.MinimalItemRow) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = minimalRecord(r)
	}
	return writeCSV(path, minimalHeader, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}
