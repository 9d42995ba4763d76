package format

import (
	"github.com/arlojames/elfmt/internal/assert"
	"github.com/arlojames/elfmt/internal/layout"
	"github.com/arlojames/elfmt/token"
)

// Packable is implemented by an [Element] simple enough to share a line with its
// siblings rather than force its own. Elements that do not implement it are treated as
// unpackable.
type Packable interface {
	IsPackable() bool
}

func isPackable(e Element) bool {
	p, ok := e.(Packable)
	return ok && p.IsPackable()
}

// Parenthesized wraps Inner between Open and Close tokens, with Inner laid out in its
// own CurrentColumn/Never subregion so that any newline forced inside Inner indents to
// the column Open ended on. Grounded on components.rs's `Parenthesized<T>`.
type Parenthesized[T Element] struct {
	Open  tokenElement
	Inner T
	Close tokenElement
}

func (p Parenthesized[T]) Format(f *Formatter) {
	p.Open.Format(f)
	f.Subregion(layout.CurrentColumnIndent(), layout.NeverNewline(), func(f *Formatter) {
		p.Inner.Format(f)
	})
	p.Close.Format(f)
}

// tokenElement adapts a single token.VisibleToken into an [Element], letting grammar
// items build composite trees (Parenthesized, ListLike, ...) out of bare tokens without
// a wrapper type of their own at each call site.
type tokenElement struct{ tok token.VisibleToken }

func (t tokenElement) Format(f *Formatter) { f.AddToken(t.tok) }

// Tok adapts a visible token into an [Element].
func Tok(v token.VisibleToken) Element { return tokenElement{tok: v} }

// packableToken is a tokenElement that also reports itself as [Packable]: a single
// token is always simple enough to pack onto a line with its siblings. Grounded on
// components.rs's `Element::is_packable` impl for bare tokens.
type packableToken struct{ tok token.VisibleToken }

func (t packableToken) Format(f *Formatter) { f.AddToken(t.tok) }

func (t packableToken) IsPackable() bool { return true }

// PackedTok adapts a visible token into a [Packable] [Element], for use as a
// [NonEmptyItems] item where the fill/pack layout should apply, e.g. the individual
// segments of a bitstring literal.
func PackedTok(v token.VisibleToken) Element { return packableToken{tok: v} }

// TokField is the constructor ListLike, Parenthesized, BinaryOpLike and WithGuard use for
// their own token-typed fields (Open, Close, Op, When).
func TokField(v token.VisibleToken) tokenElement { return tokenElement{tok: v} }

// TokFields adapts a run of visible tokens into the per-gap delimiter slice ListLike,
// WithGuard and Clauses expect (Commas, Commas, Delimiters respectively).
func TokFields(vs ...token.VisibleToken) []tokenElement {
	fs := make([]tokenElement, len(vs))
	for i, v := range vs {
		fs[i] = tokenElement{tok: v}
	}
	return fs
}

// NonEmptyItems lays out Items separated by Delimiters, packing everything onto one line
// when it fits and falling back to one item per line, indented to Open's column, when it
// does not. Delimiters holds one entry per gap between items (len(Items)-1), each its own
// distinct source token rather than a single token replayed at every gap, matching
// components.rs's `NonEmptyItems<T, D>`, whose `delimiters: Vec<D>` field is zipped
// pairwise against `items[1:]`.
type NonEmptyItems[T Element] struct {
	Items      []T
	Delimiters []func(f *Formatter) // one per gap; e.g. add a comma token then a space
}

func (n NonEmptyItems[T]) Format(f *Formatter) {
	if len(n.Items) == 0 {
		return
	}

	assert.That(len(n.Delimiters) == len(n.Items)-1,
		"NonEmptyItems: want %d delimiters for %d items, got %d", len(n.Items)-1, len(n.Items), len(n.Delimiters))

	allPackable := true
	for _, it := range n.Items {
		if !isPackable(it) {
			allPackable = false
			break
		}
	}

	itemNewline := layout.IfTooLongOrMultiLineParent()
	if allPackable {
		itemNewline = layout.IfTooLong()
	}

	// The whole list is its own CurrentColumn/Never region: it gives the first item's
	// column to align subsequent items against. Each later item's region is appended to
	// the last descendant region chain, so it nests inside the first item's Inherit/Never
	// region; that region is the one that absorbs a MultiLineParent signal propagated up
	// from a later item and retries itself in multi-line mode.
	f.Subregion(layout.CurrentColumnIndent(), layout.NeverNewline(), func(f *Formatter) {
		f.Subregion(layout.InheritIndent(), layout.NeverNewline(), func(f *Formatter) {
			n.Items[0].Format(f)
		})
		for i, it := range n.Items[1:] {
			n.Delimiters[i](f)
			f.Subregion(layout.InheritIndent(), itemNewline, func(f *Formatter) {
				it.Format(f)
			})
		}
	})
}

// ListLike lays out a delimited, comma-separated sequence: Open, then the items each
// optionally wrapped for packing, then Close, the whole interior held in a
// CurrentColumn/Never subregion so line breaks forced by an overlong item indent to
// Open's column. Commas holds the comma token between each adjacent pair of items
// (len(Items)-1 of them, each its own distinct source token), per
// components.rs's `ListLike<T, D>` (tuples, lists, args).
type ListLike[T Element] struct {
	Open, Close tokenElement
	Items       []T
	Commas      []tokenElement
}

func (l ListLike[T]) Format(f *Formatter) {
	l.Open.Format(f)
	if len(l.Items) > 0 {
		delimiters := make([]func(f *Formatter), len(l.Commas))
		for i, comma := range l.Commas {
			comma := comma
			delimiters[i] = func(f *Formatter) {
				comma.Format(f)
				f.AddSpace()
			}
		}
		items := NonEmptyItems[T]{Items: l.Items, Delimiters: delimiters}
		items.Format(f)
	}
	l.Close.Format(f)
}

// TupleLike is ListLike specialized to tuple syntax; kept as a distinct name so call
// sites read as what they build rather than how, matching components.rs's `TupleLike<T>`
// wrapper over the same underlying sequence machinery.
type TupleLike[T Element] struct{ ListLike[T] }

// BitstringLike is ListLike specialized to bitstring segment syntax (`<<...>>`),
// matching components.rs's `BitstringLike<T>`.
type BitstringLike[T Element] struct{ ListLike[T] }

// BinaryOpStyle supplies the indent and newline policy an operator uses for its
// right-hand operand, letting different operators (arithmetic, the bitstring
// comprehension `||`, ...) share [BinaryOpLike]'s layout while choosing their own
// wrapping behavior. Grounded on components.rs's `BinaryOpStyle` trait.
type BinaryOpStyle interface {
	Indent() layout.Indent
	Newline() layout.Newline
}

// BinaryOpLike lays out `Left Op Right`, wrapping Right in a subregion governed by
// Style. Grounded on components.rs's `BinaryOpLike<L, O, R>`.
type BinaryOpLike[L, R Element] struct {
	Left  L
	Op    tokenElement
	Right R
	Style BinaryOpStyle
}

func (b BinaryOpLike[L, R]) Format(f *Formatter) {
	b.Left.Format(f)
	f.AddSpace()
	b.Op.Format(f)
	f.AddSpace()
	f.Subregion(b.Style.Indent(), b.Style.Newline(), func(f *Formatter) {
		b.Right.Format(f)
	})
}

// Guard lays out a single guard expression; Guards are separated by a comma via the
// enclosing [WithGuard]'s NonEmptyItems.
type Guard[T Element] struct{ Expr T }

func (g Guard[T]) Format(f *Formatter) { g.Expr.Format(f) }

// WithGuard lays out `Head when G1, G2, ...`, wrapping the guard list in an
// Offset(2)/If{too_long, multi_line} subregion so a guard list that does not fit breaks
// onto its own indented lines under the clause head. Commas holds the comma token between
// each adjacent pair of guards (len(Guards)-1 of them, each its own distinct source
// token). Grounded on components.rs's `WithGuard<T, U, D>` and `Guard<T, D>`.
type WithGuard[T Element, U Element] struct {
	Head   T
	When   tokenElement
	Guards []U
	Commas []tokenElement
}

func (w WithGuard[T, U]) Format(f *Formatter) {
	w.Head.Format(f)
	f.Subregion(layout.OffsetIndent(2), layout.IfTooLongOrMultiLine(), func(f *Formatter) {
		f.AddSpace()
		w.When.Format(f)
		f.AddSpace()
		delimiters := make([]func(f *Formatter), len(w.Commas))
		for i, comma := range w.Commas {
			comma := comma
			delimiters[i] = func(f *Formatter) {
				comma.Format(f)
				f.AddSpace()
			}
		}
		conditions := NonEmptyItems[U]{Items: w.Guards, Delimiters: delimiters}
		conditions.Format(f)
	})
}

// Clauses lays out Items separated by Delimiters, each delimiter followed by a forced
// newline. Delimiters holds one entry per gap between items (len(Items)-1), each its own
// distinct source token, matching components.rs's `Clauses<T>`/`SemicolonDelimiter`.
type Clauses[T Element] struct {
	Items      []T
	Delimiters []tokenElement
}

func (c Clauses[T]) Format(f *Formatter) {
	for i, it := range c.Items {
		if i > 0 {
			c.Delimiters[i-1].Format(f)
			f.AddNewline()
		}
		it.Format(f)
	}
}
