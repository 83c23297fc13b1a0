// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lineup

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure matches every *StructureError via errors.Is.
	ErrStructure = errors.New("lineup report structure")
	// ErrFieldParse matches every *FieldParseError via errors.Is.
	ErrFieldParse = errors.New("lineup field parse")
)

// StructureError reports a report that lacks a required element: two pages,
// a team name per page, or at least one lineup row per page.
type StructureError struct {
	Path   string
	Page   int // 0 when the problem is not tied to one page
	Reason string
}

func (e *StructureError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s page %d: %s", e.Path, e.Page, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *StructureError) Is(target error) bool { return target == ErrStructure }

// FieldParseError reports a lineup row token that does not convert to its
// column's type. The whole parse fails; no partial row is emitted.
type FieldParseError struct {
	Page   int
	Line   int // 1-based line number within the page's text
	Column string
	Token  string
	Reason string
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("page %d line %d: column %s: cannot parse %q: %s",
		e.Page, e.Line, e.Column, e.Token, e.Reason)
}

func (e *FieldParseError) Is(target error) bool { return target == ErrFieldParse }
