package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "crimelens/internal/errors"
)

// RawTable is the raw incident file in memory: the original header plus
// one string slice per data row. Column access goes through the header
// index so the input column order is free.
type RawTable struct {
	Header  []string
	Rows    [][]string
	columns map[string]int
}

// Field returns the trimmed value of the named column in row, or an empty
// string when the column is absent or the row is short.
func (t *RawTable) Field(row []string, column string) string {
	idx, ok := t.columns[foldColumn(column)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// HasColumn reports whether the header contains the named column.
func (t *RawTable) HasColumn(column string) bool {
	_, ok := t.columns[foldColumn(column)]
	return ok
}

// foldColumn is the header matching form: trimmed and upper-cased.
func foldColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// LoadCSV reads the raw incident file into memory and verifies the header
// contract. A required column missing from the header is a fatal schema
// error naming every missing column; I/O problems are fatal storage
// errors.
func LoadCSV(path string, logger *slog.Logger) (*RawTable, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("cannot read input file %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Row width is validated per field downstream, not by the reader.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("input file %s is empty", path), RequiredColumns)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read header of %s", path), err)
	}

	// Strip a UTF-8 BOM if the file carries one.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "﻿")
	}

	table := &RawTable{
		Header:  header,
		columns: make(map[string]int, len(header)),
	}
	for i, name := range header {
		table.columns[foldColumn(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("input file %s missing required columns: %s", path, strings.Join(missing, ", ")),
			missing)
	}

	for _, col := range OptionalColumns {
		if !table.HasColumn(col) {
			logger.Warn("optional column absent, field degrades to Unknown",
				slog.String("column", col),
				slog.String("file", path))
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read data rows of %s", path), err)
		}
		table.Rows = append(table.Rows, row)
	}

	logger.Info("loaded raw incident file",
		slog.String("path", path),
		slog.Int("columns", len(header)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}
