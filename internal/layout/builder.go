package layout

import (
	"sort"

	"github.com/arlojames/elfmt/internal/assert"
	"github.com/arlojames/elfmt/token"
)

// CommentTable holds the comments an external lexer extracted from the source text, in
// ascending start-position order, so [Builder] can interleave them deterministically as
// grammar items emit visible tokens.
type CommentTable struct {
	comments []token.CommentToken
	i        int
}

// NewCommentTable builds a table from comments in any order; it sorts a private copy by
// start position.
func NewCommentTable(comments []token.CommentToken) *CommentTable {
	cs := append([]token.CommentToken(nil), comments...)
	sort.Slice(cs, func(i, j int) bool { return cs[i].Start.Before(cs[j].Start) })
	return &CommentTable{comments: cs}
}

// peek returns the next not-yet-consumed comment, if any.
func (t *CommentTable) peek() (token.CommentToken, bool) {
	if t.i >= len(t.comments) {
		return token.CommentToken{}, false
	}
	return t.comments[t.i], true
}

// next consumes and returns the next comment. The caller must have checked peek first.
func (t *CommentTable) next() token.CommentToken {
	c := t.comments[t.i]
	t.i++
	return c
}

// Builder translates emit calls from grammar items into a [Renderer]-ready layout tree.
// Tokens must be added in ascending source order; the comment table is consumed
// monotonically as a side effect of [Builder.AddToken].
type Builder struct {
	root     *item
	cur      *item // the region currently being built; see Subregion
	comments *CommentTable

	nextPosition token.Position
}

// NewBuilder creates a Builder with an empty root region and the given comment table
// (pass NewCommentTable(nil) if the source has no comments).
func NewBuilder(comments *CommentTable) *Builder {
	root := newRegion(CurrentColumnIndent(), NeverNewline())
	return &Builder{root: root, cur: root, comments: comments}
}

// AddToken appends tok to the tree, first emitting any comments whose start falls
// between the builder's current position and tok's start, then an implicit separating
// space if the needs-space predicate requires one between the previous token and tok.
func (b *Builder) AddToken(tok token.VisibleToken) {
	b.consumeComments(tok.Start)

	if b.nextPosition.IsValid() && tok.Start.Line-b.nextPosition.Line >= 2 {
		// Preserve one level of blank-line structure from the source, matching
		// original_source/src/format/transaction.rs's write_item.
		b.cur.addNewline(2)
	} else if last := b.cur.lastChild(); last != nil && last.kind == itemToken &&
		token.NeedsSpace(last.tok.Kind, tok.Kind) {
		b.AddSpace()
	}

	assert.That(!b.nextPosition.After(tok.Start), "token out of source order: builder at %v, token starts at %v", b.nextPosition, tok.Start)

	b.cur.addToken(tok)
	if tok.End.After(b.nextPosition) {
		b.nextPosition = tok.End
	}
}

// consumeComments emits, in order, every not-yet-consumed comment whose start is not
// after before, consuming the comment table monotonically. Each comment is placed with a
// preceding Newline for a Post comment (its own source line) or a two-space gap for a
// Trailing comment (same line as the code before it).
func (b *Builder) consumeComments(before token.Position) {
	for {
		c, ok := b.comments.peek()
		if !ok || before.Before(c.Start) {
			return
		}
		c = b.comments.next()

		assert.That(!b.nextPosition.After(c.Start), "comment table consumed out of order: builder at %v, comment starts at %v", b.nextPosition, c.Start)

		switch c.Kind {
		case token.Post:
			if c.Start.Line-b.nextPosition.Line >= 2 {
				b.cur.addNewline(2)
			} else {
				b.AddNewline()
			}
		case token.Trailing:
			b.AddSpaces(2)
		default:
			assert.Never("unknown comment kind %d", c.Kind)
		}
		b.cur.addComment(c)
		b.nextPosition = c.End
	}
}

// AddSpace appends a single explicit space.
func (b *Builder) AddSpace() { b.AddSpaces(1) }

// AddSpaces appends n explicit spaces. n must be positive.
func (b *Builder) AddSpaces(n int) {
	assert.That(n >= 1, "AddSpaces: n must be positive, got %d", n)
	b.cur.addSpace(n)
}

// AddNewline appends a single explicit newline.
func (b *Builder) AddNewline() {
	b.cur.addNewline(1)
}

// Subregion pushes a new, empty region with the given policies, invokes f to populate it
// through further Builder calls, then pops it and appends it to the enclosing region per
// the "last descendant region chain" invariant.
func (b *Builder) Subregion(indent Indent, newline Newline, f func(*Builder)) {
	parent := b.cur
	b.cur = newRegion(indent, newline)
	f(b)
	child := b.cur
	b.cur = parent
	b.cur.addRegion(child)
}

// Render finalizes the tree built so far and renders it to text. The Builder must not be
// used afterward. source is the original input text: every token and comment is rendered
// from its own slice of source, never from a caller-supplied lexeme, and maxColumns is
// the column budget enforced by If{TooLong: true} regions.
func (b *Builder) Render(source string, maxColumns int) (string, error) {
	assert.That(b.cur == b.root, "Builder.Render called with an open Subregion")
	return Render(b.root, source, maxColumns)
}
