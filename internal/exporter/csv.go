// Package exporter writes pipeline tables and metric results to disk.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finsight/internal/dataset"
	apperrors "finsight/internal/errors"
)

// WriteTableCSV writes a table to a CSV file, one header row followed by the
// data rows in column order. Nil cells become empty fields.
func WriteTableCSV(path string, table *dataset.Table) error {
	slog.Info("writing table to CSV",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create CSV file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Columns); err != nil {
		return apperrors.NewStorageError("failed to write CSV header row", err)
	}

	for _, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = dataset.CellString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write CSV data row", err)
		}
	}

	return nil
}

// WriteJSON writes a metric result to a JSON file with generation metadata.
func WriteJSON(path string, operation string, result interface{}) error {
	slog.Info("writing metric result to JSON",
		slog.String("path", path),
		slog.String("operation", operation))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for JSON output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create JSON file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	payload := map[string]interface{}{
		"operation":    operation,
		"result":       result,
		"generated_at": time.Now().Format(time.RFC3339),
	}
	if err := encoder.Encode(payload); err != nil {
		return apperrors.NewStorageError("failed to encode metric result to JSON", err)
	}

	return nil
}
