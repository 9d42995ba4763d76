package layout

import (
	"strings"
	"testing"

	"github.com/arlojames/elfmt/token"
	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestRenderJoinsTokensWithImplicitSpace(t *testing.T) {
	source := "foo bar"
	b := NewBuilder(NewCommentTable(nil))
	b.AddToken(tok(token.Atom, "foo", 0))
	b.AddToken(tok(token.Atom, "bar", 4))

	got, err := b.Render(source, 80)

	require.NoErrorf(t, err, "Render")
	assert.Equals(t, got, "foo bar")
}

func TestRenderAlwaysNewlineForcesIndentedBreak(t *testing.T) {
	source := "{foo}"
	b := NewBuilder(NewCommentTable(nil))
	b.AddToken(tok(token.Symbol, "{", 0))
	b.Subregion(OffsetIndent(2), AlwaysNewline(), func(b *Builder) {
		b.AddToken(tok(token.Atom, "foo", 1))
	})
	b.AddToken(tok(token.Symbol, "}", 4))

	got, err := b.Render(source, 80)

	require.NoErrorf(t, err, "Render")
	assert.Equals(t, got, "{\n  foo}")
}

func TestRenderIfTooLongPacksOnOneLineWhenItFits(t *testing.T) {
	source := "{a}"
	b := NewBuilder(NewCommentTable(nil))
	b.AddToken(tok(token.Symbol, "{", 0))
	b.Subregion(OffsetIndent(2), IfTooLong(), func(b *Builder) {
		b.AddToken(tok(token.Atom, "a", 1))
	})
	b.AddToken(tok(token.Symbol, "}", 2))

	got, err := b.Render(source, 80)

	require.NoErrorf(t, err, "Render")
	assert.Equals(t, got, "{a}")
}

func TestRenderIfTooLongBreaksWhenItDoesNotFit(t *testing.T) {
	xs := strings.Repeat("x", 30)
	source := "foo{" + xs + "}"
	b := NewBuilder(NewCommentTable(nil))
	b.AddToken(tok(token.Atom, "foo", 0))
	b.AddToken(tok(token.Symbol, "{", 3))
	b.Subregion(OffsetIndent(2), IfTooLong(), func(b *Builder) {
		b.AddToken(tok(token.Atom, xs, 4))
	})
	b.AddToken(tok(token.Symbol, "}", 34))

	got, err := b.Render(source, 10)

	require.NoErrorf(t, err, "Render")
	assert.True(t, strings.HasPrefix(got, "foo{\n  "), "expected forced break and indent, got %q", got)
}

func TestRenderCommentTextComesFromSource(t *testing.T) {
	source := "foo %% a note\n"
	comment := token.CommentToken{
		Kind:  token.Trailing,
		Start: token.Position{Line: 1, Column: 5, Offset: 4},
		End:   token.Position{Line: 1, Column: 14, Offset: 13},
	}
	b := NewBuilder(NewCommentTable([]token.CommentToken{comment}))
	b.AddToken(tok(token.Atom, "foo", 0))
	b.consumeComments(token.Position{Line: 1, Column: 20, Offset: 19})

	got, err := b.Render(source, 80)

	require.NoErrorf(t, err, "Render")
	assert.Equals(t, got, "foo  %% a note")
}
