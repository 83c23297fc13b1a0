//go:build mage

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	reportsDir = "reports"
	exportsDir = "exports"
	dataDir    = "data"
)

// reports lists the lineup PDFs waiting in reports/.
func reports() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(reportsDir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no PDFs in %s/", reportsDir)
	}
	return paths, nil
}

// Parse exports every report in reports/ to exports/<name>.csv.
func Parse() error {
	mg.Deps(Init, Build)

	paths, err := reports()
	if err != nil {
		return err
	}
	bin := filepath.Join(binDir, binName)
	failed := 0
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		out := filepath.Join(exportsDir, name+".csv")
		if err := sh.RunV(bin, "parse", p, "--output", out); err != nil {
			fmt.Printf("[parse] %s: %v\n", p, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d report(s) failed to parse", failed)
	}
	return nil
}

// Ingest stores every report in reports/ in data/lineups.db.
func Ingest() error {
	mg.Deps(Init, Build)

	paths, err := reports()
	if err != nil {
		return err
	}
	args := append([]string{"store", "ingest", "--data-dir", dataDir}, paths...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
