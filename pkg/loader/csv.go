package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"mercator-hq/callisto/pkg/canon"
)

// parseCSV decodes a tabular-rows document: one header row naming the
// columns, then one object per data row keyed by those names. Rows with
// every cell empty are skipped. A row whose column count differs from
// the header is a parse error naming the 1-based data row.
func parseCSV(path string, data []byte, typed bool) (*canon.Value, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	// Row width is checked manually so the error can name the row.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, NewParseError(path, "missing header row", nil)
	}
	if err != nil {
		return nil, csvParseError(path, err)
	}

	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			return nil, NewParseError(path, fmt.Sprintf("header column %d is empty", i+1), nil)
		}
		if seen[name] {
			return nil, NewParseError(path, fmt.Sprintf("duplicate header column %q", name), nil)
		}
		seen[name] = true
	}

	rows := canon.NewList()
	rowIndex := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvParseError(path, err)
		}

		rowIndex++
		if allCellsEmpty(record) {
			continue
		}
		if len(record) != len(header) {
			return nil, NewRowError(path, rowIndex,
				fmt.Sprintf("row has %d columns, header has %d", len(record), len(header)))
		}

		row := canon.NewMap()
		for i, name := range header {
			row.Set(name, cellValue(record[i], typed))
		}
		rows.Append(row)
	}

	return rows, nil
}

func allCellsEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellValue converts one cell. Without typing every cell is a string.
// With typing: empty cells become null, true/false become booleans, and
// numeric literals become numbers; anything else stays the original
// string.
func cellValue(cell string, typed bool) *canon.Value {
	if !typed {
		return canon.String(cell)
	}

	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return canon.Null()
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return canon.Bool(true)
	case "false":
		return canon.Bool(false)
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return canon.Number(float64(n))
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return canon.Number(f)
	}

	return canon.String(cell)
}

func csvParseError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return NewParseErrorAt(path, pe.Line, pe.Column, pe.Err.Error(), nil)
	}
	return NewParseError(path, err.Error(), nil)
}
