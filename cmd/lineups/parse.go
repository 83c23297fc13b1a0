// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lineups/internal/export"
	"github.com/pdiddy/lineups/internal/lineup"
	"github.com/pdiddy/lineups/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [reports...]",
	Short: "Parse lineup-analysis PDFs into a normalized table",
	Long: `Parse reads each two-page lineup-analysis PDF and prints its lineup rows
as one table. Team names come from the export filename
(lineup-analysis_<DIVISION>_<TEAM1>_<TEAM2>_<DATE>.pdf) or, failing that,
from each page header; --teams overrides both.

Rows from several reports are concatenated. A report that fails to parse
is reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("backend", "native", "text extraction backend: native, tabula, or pdftotext")
	parseCmd.Flags().StringSlice("teams", nil, "page 1 and page 2 team names, e.g. --teams QAT,LBN")
	parseCmd.Flags().String("format", "", "output format: table, csv, json, yaml, or xlsx (default from --output extension, else table)")
	parseCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	parseCmd.Flags().BoolP("verbose", "v", false, "log per-page progress to stderr")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"parse.backend": "backend",
		"parse.teams":   "teams",
		"export.format": "format",
	}); err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	output, _ := cmd.Flags().GetString("output")

	p, err := newParser(parseConfig(), verbose)
	if err != nil {
		return err
	}

	table, failed := parseReports(p, args, os.Stderr)

	format, err := outputFormat(cmd, output)
	if err != nil {
		return err
	}
	if table.Len() > 0 || failed == 0 {
		if err := writeTable(table, output, format); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d report(s) failed to parse", failed)
	}
	return nil
}

// parseReports parses every path and concatenates the rows. Failures are
// written to w and counted.
func parseReports(p *lineup.Parser, paths []string, w io.Writer) (*types.Table, int) {
	if len(paths) == 1 {
		t, err := p.Parse(paths[0])
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", paths[0], err)
			return &types.Table{}, 1
		}
		return t, 0
	}

	merged := &types.Table{}
	failed := 0
	for _, path := range paths {
		t, err := p.Parse(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "parsed  %s (%d rows)\n", path, t.Len())
		merged.Rows = append(merged.Rows, t.Rows...)
	}
	return merged, failed
}

// outputFormat resolves the format from the flag or config, falling back
// to the output file's extension.
func outputFormat(cmd *cobra.Command, output string) (export.Format, error) {
	name := viper.GetString("export.format")
	if output != "" && !cmd.Flags().Changed("format") && !viper.InConfig("export.format") {
		return export.FormatFromPath(output)
	}
	return export.ParseFormat(name)
}

func writeTable(t *types.Table, output string, format export.Format) error {
	if output == "" {
		if format == export.FormatXLSX {
			return fmt.Errorf("xlsx output needs --output")
		}
		return export.Write(os.Stdout, t, format)
	}
	if err := export.WriteFile(output, t, format); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", t.Len(), output)
	return nil
}
