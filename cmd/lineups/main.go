// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lineups CLI: parse lineup
// analysis reports, export them, and keep them in a local database.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lineups/internal/lineup"
	"github.com/pdiddy/lineups/internal/pdftext"
	"github.com/pdiddy/lineups/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the lineups CLI.
var rootCmd = &cobra.Command{
	Use:   "lineups",
	Short: "Extract lineup statistics from basketball lineup-analysis PDFs",
	Long: `lineups reads two-page lineup-analysis reports (one page per team) and
normalizes every five-player lineup row into a single table with the
columns Team, Opponent, Lineup, Min, Team Score, Opponent Score, FGA, FGM,
OR, DR, AS, TO, ST.

Use parse to export reports as text, CSV, JSON, YAML, or XLSX, and store
to accumulate reports in a local SQLite database for queries across games.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lineups.yaml or ~/.config/lineups/lineups.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lineups")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lineups"))
		}
	}

	viper.SetEnvPrefix("LINEUPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("parse.backend", string(types.BackendNative))
	viper.SetDefault("store.data_dir", types.DefaultDataDir)
	viper.SetDefault("store.max_results", types.DefaultMaxResults)
	viper.SetDefault("export.format", "table")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds config keys to the named flags of cmd. Several commands
// share a key, so binding happens when a command runs rather than in init.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag --%s not defined on %s", name, cmd.Name())
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// parseConfig reads the parse stage settings after bindFlags.
func parseConfig() types.ParseConfig {
	return types.ParseConfig{
		Backend: types.ExtractionBackend(viper.GetString("parse.backend")),
		Teams:   viper.GetStringSlice("parse.teams"),
	}
}

// newParser builds a lineup parser for cfg.
func newParser(cfg types.ParseConfig, verbose bool) (*lineup.Parser, error) {
	if len(cfg.Teams) != 0 && len(cfg.Teams) != 2 {
		return nil, fmt.Errorf("--teams takes exactly two names (page 1, page 2), got %d", len(cfg.Teams))
	}
	src, err := pdftext.NewSource(cfg.Backend)
	if err != nil {
		return nil, err
	}
	opts := lineup.Options{Teams: cfg.Teams}
	if verbose {
		opts.Log = os.Stderr
	}
	return lineup.NewParser(src, opts), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
