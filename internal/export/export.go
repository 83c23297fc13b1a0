// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes lineup tables as text, CSV, JSON, YAML, or XLSX.
// Every format carries the same columns in the same order.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lineups/pkg/types"
)

// Format names an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
)

// SheetName is the worksheet that holds the rows in XLSX output.
const SheetName = "Lineups"

// ParseFormat validates a format name. The empty string means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case "yml":
		return FormatYAML, nil
	case FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use table, csv, json, yaml, or xlsx", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" || strings.EqualFold(ext, "txt") {
		return FormatTable, nil
	}
	return ParseFormat(ext)
}

// Write encodes t to w in the given format.
func Write(w io.Writer, t *types.Table, format Format) error {
	switch format {
	case FormatTable, "":
		return WriteTable(w, t)
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatYAML:
		return WriteYAML(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes t to path, creating parent directories. An empty format
// is inferred from the extension.
func WriteFile(path string, t *types.Table, format Format) error {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = f
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(out, t, format); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

// WriteCSV writes a header row followed by one record per lineup row.
func WriteCSV(w io.Writer, t *types.Table) error {
	rows := t.Rows
	if rows == nil {
		rows = []types.LineupRow{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshaling CSV: %w", err)
	}
	return nil
}

// WriteJSON writes the whole table, match metadata included.
func WriteJSON(w io.Writer, t *types.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteYAML writes the whole table, match metadata included.
func WriteYAML(w io.Writer, t *types.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a single Lineups sheet: the header in
// row 1 and typed cells below it.
func WriteXLSX(w io.Writer, t *types.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(types.Columns))
	for i, c := range types.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteTable writes an aligned plain-text table followed by a row count.
func WriteTable(w io.Writer, t *types.Table) error {
	records := t.Records()
	if len(records) == 1 {
		_, err := fmt.Fprintln(w, "No rows.")
		return err
	}

	widths := make([]int, len(types.Columns))
	for _, rec := range records {
		for i, c := range rec {
			widths[i] = max(widths[i], len(c))
		}
	}

	total := 0
	for i, rec := range records {
		var b strings.Builder
		for j, c := range rec {
			if j > 0 {
				b.WriteString("  ")
			}
			// Text columns left-aligned, numbers right-aligned.
			if j < 3 {
				fmt.Fprintf(&b, "%-*s", widths[j], c)
			} else {
				fmt.Fprintf(&b, "%*s", widths[j], c)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
		if i == 0 {
			for _, wd := range widths {
				total += wd
			}
			fmt.Fprintln(w, strings.Repeat("-", total+2*(len(widths)-1)))
		}
	}

	_, err := fmt.Fprintf(w, "\n%d rows\n", len(t.Rows))
	return err
}
