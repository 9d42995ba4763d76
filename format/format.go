// Package format exposes the layout engine to grammar items: a [Formatter] facade over
// the internal builder and renderer, and a small generic toolkit of delimited-sequence,
// binary-operator, and clause adapters that grammar items compose to describe their own
// layout without knowing anything about columns, retries, or indentation arithmetic.
package format

import (
	"github.com/arlojames/elfmt/internal/layout"
	"github.com/arlojames/elfmt/token"
)

// Error reports that a source could not be formatted within the given constraints,
// naming the position of the item responsible.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// MacroTable records the start positions of tokens already consumed by macro expansion.
// [Formatter.AddToken] silently drops any token whose start position is a key of the
// table; only exact start positions match, not positions inside a macro's span. A token
// that is not in the table but starts behind the builder's current position is not
// skipped: the builder's source-order assertion panics on it.
type MacroTable map[token.Position]struct{}

// Element is implemented by a grammar item that knows how to lay itself out. Format may
// call any Formatter method, including Subregion with a nested Element's own Format as
// the callback.
type Element interface {
	Format(f *Formatter)
}

// Formatter is the facade grammar items drive to build and render a layout tree. It
// wraps a [layout.Builder] the same way the original formatter this package replaces
// wrapped its own writer: one Formatter per format run, not reused across runs.
type Formatter struct {
	b      *layout.Builder
	macros MacroTable
}

// New creates a Formatter over the given comment table and macro table. Pass a nil or
// empty MacroTable when the source has no macros.
func New(comments *layout.CommentTable, macros MacroTable) *Formatter {
	return &Formatter{b: layout.NewBuilder(comments), macros: macros}
}

// AddToken appends tok, skipping it silently if its start position is a key of the
// Formatter's [MacroTable].
func (f *Formatter) AddToken(tok token.VisibleToken) {
	if _, skip := f.macros[tok.Start]; skip {
		return
	}
	f.b.AddToken(tok)
}

// AddSpace appends a single explicit space.
func (f *Formatter) AddSpace() { f.b.AddSpace() }

// AddSpaces appends n explicit spaces.
func (f *Formatter) AddSpaces(n int) { f.b.AddSpaces(n) }

// AddNewline appends a single explicit newline.
func (f *Formatter) AddNewline() { f.b.AddNewline() }

// Subregion opens a new region with the given indent and newline policies, runs body to
// populate it, and appends it to the region currently being built.
func (f *Formatter) Subregion(indent layout.Indent, newline layout.Newline, body func(*Formatter)) {
	f.b.Subregion(indent, newline, func(b *layout.Builder) {
		body(&Formatter{b: b, macros: f.macros})
	})
}

// Format renders root into text obeying maxColumns, the only external configuration the
// engine takes. source is the original input text: every token and comment
// root emits is written out as its own slice of source, so source must be the exact text
// the token/comment offsets were computed against.
func Format(root Element, comments *layout.CommentTable, macros MacroTable, source string, maxColumns int) (string, error) {
	f := New(comments, macros)
	root.Format(f)

	out, err := f.b.Render(source, maxColumns)
	if err != nil {
		if pe, ok := err.(*layout.PositionError); ok {
			return "", &Error{Pos: pe.Pos, Msg: pe.Msg}
		}
		return "", &Error{Msg: err.Error()}
	}
	return out, nil
}
