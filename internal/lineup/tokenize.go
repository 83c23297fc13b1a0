// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lineup

import (
	"regexp"
	"strings"
	"unicode"
)

// rawRow is a candidate lineup row split into its label and unconverted
// stat tokens.
type rawRow struct {
	Line   int // 1-based line number within the page
	Label  string
	Fields []string
}

var (
	// numberedLineup is a lineup given as jersey numbers, e.g. "4-7-10-12-15".
	numberedLineup = regexp.MustCompile(`^#?\d+(?:[-/]#?\d+){2,}$`)
	footerLabel    = regexp.MustCompile(`(?i)^(team\s+)?totals?:?$`)
	intToken       = regexp.MustCompile(`^#?\d+$`)
)

// tokenize splits line into a label and its trailing run of numeric tokens.
// It reports false for lines that cannot be lineup rows: too few stat
// tokens, a label of punctuation only, or a totals footer. The label may be
// empty when the lineup itself is printed as numbers; convertRow decides
// how many leading stat tokens belong to it.
func tokenize(line string, lineNo int) (rawRow, bool) {
	fields := mergeCompounds(strings.Fields(line))

	i := len(fields)
	for i > 0 && numericToken(fields[i-1]) {
		i--
	}
	label := strings.Join(fields[:i], " ")
	stats := fields[i:]

	if label == "" && len(stats) > 0 && numberedLineup.MatchString(stats[0]) {
		label, stats = stats[0], stats[1:]
	}

	if len(stats) < len(compactLayout) || (label != "" && !hasAlnum(label)) || footerLabel.MatchString(label) {
		return rawRow{}, false
	}
	return rawRow{Line: lineNo, Label: label, Fields: stats}, true
}

// mergeCompounds closes up spaced compounds such as "21 - 18", "21 -18",
// "21- 18", and "5 / 11". Only two integers are joined, except at the start
// of the line where a numbered lineup ("4 - 7 - 10 - 12 - 15") may chain
// further.
func mergeCompounds(fields []string) []string {
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		for {
			n := compoundSpan(tok, fields[i+1:], len(out) == 0)
			if n == 0 {
				break
			}
			tok += strings.Join(fields[i+1:i+1+n], "")
			i += n
			if len(out) > 0 {
				break
			}
		}
		out = append(out, tok)
	}
	return out
}

var (
	openCompound  = regexp.MustCompile(`^#?\d+[-/]$`)
	closeCompound = regexp.MustCompile(`^[-/]#?\d+$`)
)

// compoundSpan returns how many of the tokens in rest join tok into one
// compound: 2 for "21" "-" "18", 1 for "21" "-18" or "21-" "18", else 0.
func compoundSpan(tok string, rest []string, lineStart bool) int {
	if len(rest) == 0 {
		return 0
	}
	if openCompound.MatchString(tok) {
		if intToken.MatchString(rest[0]) {
			return 1
		}
		return 0
	}

	joinable := func(sep string) bool {
		return intToken.MatchString(tok) || (lineStart && sameSeparatorChain(tok, sep))
	}
	switch {
	case len(rest) > 1 && isSeparator(rest[0]) && intToken.MatchString(rest[1]):
		if joinable(rest[0]) {
			return 2
		}
	case closeCompound.MatchString(rest[0]):
		if joinable(rest[0][:1]) {
			return 1
		}
	}
	return 0
}

func isSeparator(tok string) bool {
	return tok == "-" || tok == "/"
}

// sameSeparatorChain reports whether tok is integers joined only by sep.
func sameSeparatorChain(tok, sep string) bool {
	parts := strings.Split(tok, sep)
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if !intToken.MatchString(p) {
			return false
		}
	}
	return true
}

// numericToken reports whether tok looks like a stat value: digits with
// decimal, time, ratio, or percent punctuation, or a lone dash placeholder.
func numericToken(tok string) bool {
	switch tok {
	case "-", "–", "—":
		return true
	}
	digit := false
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(".,:/%+-", r):
		default:
			return false
		}
	}
	return digit
}

func hasAlnum(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
