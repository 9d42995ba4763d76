// Package token defines the source-position and token model that the layout engine
// renders: positions, spans, visible tokens, and comments. It carries no lexer — the
// values here are produced by an external parser and handed to the engine as-is.
package token

import "strconv"

// Position describes a byte offset into source text, together with the line and column
// it falls on for diagnostics. Positions are totally ordered by Offset; Line and Column
// are carried for error messages only and are not consulted for ordering.
type Position struct {
	Line   int // line number, starting at 1
	Column int // column number, starting at 1
	Offset int // byte offset into the source text, starting at 0
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns the position in line:column format.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Before reports whether p comes before o in the source text.
func (p Position) Before(o Position) bool { return p.Offset < o.Offset }

// After reports whether p comes after o in the source text.
func (p Position) After(o Position) bool { return p.Offset > o.Offset }

// Span is anything with a start and end [Position] in the source text.
type Span interface {
	StartPosition() Position
	EndPosition() Position
}

// IsEmpty reports whether s spans zero bytes of source text.
func IsEmpty(s Span) bool {
	return s.StartPosition().Offset == s.EndPosition().Offset
}
