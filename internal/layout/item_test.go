package layout

import (
	"testing"

	"github.com/arlojames/elfmt/token"
	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func tok(kind token.Kind, lexeme string, offset int) token.VisibleToken {
	start := token.Position{Line: 1, Column: offset + 1, Offset: offset}
	end := token.Position{Line: 1, Column: offset + 1 + len(lexeme), Offset: offset + len(lexeme)}
	return token.VisibleToken{Kind: kind, Lexeme: lexeme, Start: start, End: end}
}

func TestItemAddTokenAppendsToTail(t *testing.T) {
	root := newRegion(CurrentColumnIndent(), NeverNewline())

	root.addToken(tok(token.Atom, "foo", 0))
	root.addToken(tok(token.Atom, "bar", 4))

	require.EqualValuesf(t, len(root.items), 2, "expected 2 children")
	assert.Equals(t, root.items[0].tok.Lexeme, "foo")
	assert.Equals(t, root.items[1].tok.Lexeme, "bar")
}

func TestItemAddRegionNestsIntoLastDescendantChain(t *testing.T) {
	root := newRegion(CurrentColumnIndent(), NeverNewline())

	a := newRegion(InheritIndent(), NeverNewline())
	root.addRegion(a)
	a.addToken(tok(token.Atom, "x", 0))

	// root.tail now points at a; a new token added through root must land inside a, not
	// as a sibling of a under root.
	root.addToken(tok(token.Atom, "y", 2))

	require.EqualValuesf(t, len(root.items), 1, "root must have exactly one direct child")
	require.EqualValuesf(t, len(a.items), 2, "a must have received both tokens")
	assert.Equals(t, a.items[0].tok.Lexeme, "x")
	assert.Equals(t, a.items[1].tok.Lexeme, "y")

	b := newRegion(InheritIndent(), NeverNewline())
	root.addRegion(b)

	require.EqualValuesf(t, len(a.items), 3, "b must nest inside a, the current tail")
	assert.That(a.items[2] == b, "expected b to be appended as a's child")
}

func TestIndentConstructors(t *testing.T) {
	assert.EqualValues(t, InheritIndent().kind, indentInherit)
	assert.EqualValues(t, OffsetIndent(2).n, 2)
	assert.EqualValues(t, ParentOffsetIndent(4).kind, indentParentOffset)
	assert.EqualValues(t, CurrentColumnIndent().kind, indentCurrentColumn)
}

func TestNewlineConstructors(t *testing.T) {
	assert.EqualValues(t, AlwaysNewline().kind, newlineAlways)
	assert.EqualValues(t, NeverNewline().kind, newlineNever)

	n := IfTooLongOrMultiLineParent()
	assert.EqualValues(t, n.kind, newlineIf)
	assert.True(t, n.cond.TooLong, "IfTooLongOrMultiLineParent must set TooLong")
	assert.True(t, n.cond.MultiLineParent, "IfTooLongOrMultiLineParent must set MultiLineParent")
	assert.Falsef(t, n.cond.MultiLine, "IfTooLongOrMultiLineParent must not set MultiLine")
}
