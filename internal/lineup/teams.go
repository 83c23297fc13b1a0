// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lineup

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/lineups/pkg/types"
)

// filenamePattern matches lineup-analysis_<DIVISION>_<TEAM1>_<TEAM2>_<YYYYMMDD>.
var filenamePattern = regexp.MustCompile(`(?i)^lineup-analysis_([a-z0-9]+)_([a-z0-9]+)_([a-z0-9]+)_(\d{8})$`)

// MatchFromFilename extracts division, team codes, and date from an export
// filename. It reports false unless the whole name matches the pattern;
// partial matches are never used.
func MatchFromFilename(path string) (types.MatchInfo, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".pdf") {
		return types.MatchInfo{}, false
	}

	m := filenamePattern.FindStringSubmatch(strings.TrimSuffix(base, ext))
	if m == nil {
		return types.MatchInfo{}, false
	}
	date, err := time.Parse("20060102", m[4])
	if err != nil {
		return types.MatchInfo{}, false
	}
	if strings.EqualFold(m[2], m[3]) {
		return types.MatchInfo{}, false
	}
	return types.MatchInfo{Division: m[1], Team1: m[2], Team2: m[3], Date: date}, true
}

var (
	columnHeaderLine = regexp.MustCompile(`(?i)^(line-?\s?ups?\b|min\b|score\b|field goals\b|rebounds\b|m/a\b|or\s+dr\b)`)
	pageMarkerLine   = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	teamPrefix       = regexp.MustCompile(`(?i)^team\s*[:\-]\s*`)
	reportSuffix     = regexp.MustCompile(`(?i)[\s\-:|]*(line-?\s?up\s+analysis|line-?\s?ups?|analysis)$`)
	versus           = regexp.MustCompile(`(?i)\s+(vs\.?|v\.?|@)\s+`)
)

// headerTeam returns the team named in the page header: the first line
// above the first lineup row that, after removing report boilerplate,
// still names something. "A vs B" names A.
func headerTeam(lines []string, firstRow int) string {
	if firstRow > len(lines) {
		firstRow = len(lines)
	}
	for _, l := range lines[:firstRow] {
		if columnHeaderLine.MatchString(l) || pageMarkerLine.MatchString(l) {
			continue
		}
		name := teamPrefix.ReplaceAllString(l, "")
		if loc := versus.FindStringIndex(name); loc != nil {
			name = name[:loc[0]]
		}
		name = strings.TrimSpace(reportSuffix.ReplaceAllString(name, ""))
		if name != "" {
			return name
		}
	}
	return ""
}
