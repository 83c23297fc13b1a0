// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lineups/internal/export"
	"github.com/pdiddy/lineups/internal/store"
	"github.com/pdiddy/lineups/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep parsed reports in a local database (ingest, query, totals)",
	Long: `Store manages a local SQLite database of parsed lineup reports. Use
subcommands to ingest reports, query stored lineup rows, or aggregate a
team's lineups across games.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest [reports...]",
	Short: "Parse reports and store their lineup rows",
	Long: `Ingest parses each report and stores it as one game keyed by its
filename. Reports whose rows have not changed since the last ingest are
skipped; changed reports replace their old rows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"parse.backend": "backend"}); err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := parseConfig()
	cfg.Teams = nil // teams differ per report
	p, err := newParser(cfg, verbose)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.IngestFiles(context.Background(), p, args, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d report(s) failed ingesting", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query stored lineup rows",
	Long: `Query returns stored lineup rows filtered by team, opponent, player,
game, or minutes played, in game order. Results use the same columns as
parse and can be exported in any parse format.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"export.format": "format"}); err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Retrieve(context.Background(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd, output)
	if err != nil {
		return err
	}
	if format == export.FormatTable && output == "" {
		return formatQueryOutput(results)
	}
	return writeTable(store.Table(results), output, format)
}

func formatQueryOutput(results []store.QueryResult) error {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-6s  %-6s  %-40s  %6s  %7s  %7s\n",
		"Date", "Team", "Opp", "Lineup", "Min", "Score", "FG")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))

	for _, r := range results {
		date := "-"
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-6s  %-6s  %-40s  %6.2f  %7s  %7s\n",
			date, truncate(r.Team, 6), truncate(r.Opponent, 6), truncate(r.Lineup, 40), r.Min,
			fmt.Sprintf("%d-%d", r.TeamScore, r.OpponentScore),
			fmt.Sprintf("%d/%d", r.FGM, r.FGA))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- totals subcommand ---

var storeTotalsCmd = &cobra.Command{
	Use:   "totals [team]",
	Short: "Aggregate each lineup's stats across stored games",
	Long: `Totals sums minutes, points for and against, field goals, rebounds,
assists, turnovers, and steals per lineup across every stored game, most
minutes first. Without a team it aggregates all teams.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStoreTotals,
}

func runStoreTotals(cmd *cobra.Command, args []string) error {
	team := ""
	if len(args) == 1 {
		team = args[0]
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	totals, err := s.Totals(context.Background(), team)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(totals)
	}

	if len(totals) == 0 {
		fmt.Println("No lineups stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-40s  %5s  %7s  %6s  %4s  %7s  %3s  %3s  %3s  %3s  %3s\n",
		"Team", "Lineup", "Games", "Min", "+/-", "Pts", "FG", "OR", "DR", "AS", "TO", "ST")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, t := range totals {
		fmt.Fprintf(os.Stdout, "%-6s  %-40s  %5d  %7.2f  %+6d  %4d  %7s  %3d  %3d  %3d  %3d  %3d\n",
			truncate(t.Team, 6), truncate(t.Lineup, 40), t.Games, t.Min,
			t.TeamScore-t.OpponentScore, t.TeamScore,
			fmt.Sprintf("%d/%d", t.FGM, t.FGA),
			t.OR, t.DR, t.AS, t.TO, t.ST)
	}
	fmt.Fprintf(os.Stdout, "\n%d lineups\n", len(totals))
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	if err := bindFlags(cmd, map[string]string{
		"store.data_dir":    "data-dir",
		"store.max_results": "max-results",
	}); err != nil {
		return nil, err
	}
	return store.NewStore(types.StoreConfig{
		DataDir:    viper.GetString("store.data_dir"),
		MaxResults: viper.GetInt("store.max_results"),
	})
}

func queryOptsFromFlags(cmd *cobra.Command) store.QueryOptions {
	team, _ := cmd.Flags().GetString("team")
	opponent, _ := cmd.Flags().GetString("opponent")
	player, _ := cmd.Flags().GetString("player")
	game, _ := cmd.Flags().GetString("game")
	minMinutes, _ := cmd.Flags().GetFloat64("min-minutes")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Team:       team,
		Opponent:   opponent,
		Player:     player,
		GameID:     game,
		MinMinutes: minMinutes,
		MaxResults: limit,
	}
}

// truncate shortens s to n characters, counting runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", types.DefaultDataDir, "directory holding lineups.db")
	storeCmd.PersistentFlags().Int("max-results", types.DefaultMaxResults, "default maximum number of query results")

	// Ingest flags.
	storeIngestCmd.Flags().String("backend", "native", "text extraction backend: native, tabula, or pdftotext")
	storeIngestCmd.Flags().BoolP("verbose", "v", false, "log per-page progress to stderr")

	// Query flags.
	storeQueryCmd.Flags().String("team", "", "filter by team")
	storeQueryCmd.Flags().String("opponent", "", "filter by opponent")
	storeQueryCmd.Flags().String("player", "", "filter by player name within the lineup")
	storeQueryCmd.Flags().String("game", "", "filter by game ID (report filename without extension)")
	storeQueryCmd.Flags().Float64("min-minutes", 0, "only lineups with at least this many minutes")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().String("format", "", "output format: table, csv, json, yaml, or xlsx")
	storeQueryCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	// Totals flags.
	storeTotalsCmd.Flags().Bool("json", false, "output totals as JSON")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeTotalsCmd)

	rootCmd.AddCommand(storeCmd)
}
