package layout

import "github.com/arlojames/elfmt/token"

// indentKind is the shape of an [Indent] policy.
type indentKind int

const (
	indentInherit indentKind = iota
	indentOffset
	indentParentOffset
	indentCurrentColumn
)

// Indent controls how a region's indentation is derived from its parent's.
type Indent struct {
	kind indentKind
	n    int
}

// InheritIndent uses the parent region's indent unchanged.
func InheritIndent() Indent { return Indent{kind: indentInherit} }

// OffsetIndent adds n columns to the parent region's indent.
func OffsetIndent(n int) Indent { return Indent{kind: indentOffset, n: n} }

// ParentOffsetIndent adds n columns to the parent-of-parent region's indent, skipping
// one level. Used by constructs (e.g. a binary operator's right-hand side) that want to
// align with their own container rather than their immediate wrapper.
func ParentOffsetIndent(n int) Indent { return Indent{kind: indentParentOffset, n: n} }

// CurrentColumnIndent aligns to the column the parent transaction is at when the region
// begins (or the parent's indent, if that column is the start of a line).
func CurrentColumnIndent() Indent { return Indent{kind: indentCurrentColumn} }

// newlineKind is the shape of a [Newline] policy.
type newlineKind int

const (
	newlineAlways newlineKind = iota
	newlineNever
	newlineIf
)

// NewlineCond gates a conditional [Newline] policy. Any subset of the three conditions
// may be set; see [Renderer.renderRegion] for how each one is interpreted.
type NewlineCond struct {
	// TooLong forbids the region from writing a line longer than the render's max
	// column budget.
	TooLong bool
	// MultiLine forbids the region from emitting a bare newline at all, unless the
	// enclosing transaction is already in multi-line mode.
	MultiLine bool
	// MultiLineParent signals that, if this region cannot be kept on one line, its
	// parent region should itself be forced into multi-line mode rather than this
	// region alone retrying.
	MultiLineParent bool
}

// Newline controls whether and when a region forces a leading newline and how strictly
// it enforces the column budget and single-line rendering for its own body.
type Newline struct {
	kind newlineKind
	cond NewlineCond
}

// AlwaysNewline forces a newline before the region's body.
func AlwaysNewline() Newline { return Newline{kind: newlineAlways} }

// NeverNewline never forces a newline and places no extra restriction on the region.
func NeverNewline() Newline { return Newline{kind: newlineNever} }

// IfNewline makes the newline, multi-line, and too-long behavior conditional per cond.
func IfNewline(cond NewlineCond) Newline { return Newline{kind: newlineIf, cond: cond} }

// IfTooLong is shorthand for IfNewline(NewlineCond{TooLong: true}): pack onto one line
// unless doing so would exceed the column budget.
func IfTooLong() Newline { return IfNewline(NewlineCond{TooLong: true}) }

// IfTooLongOrMultiLineParent is shorthand for the common "pack unless it doesn't fit, or
// unless a sibling already forced the enclosing region multi-line" combination used
// between items of a delimited sequence.
func IfTooLongOrMultiLineParent() Newline {
	return IfNewline(NewlineCond{TooLong: true, MultiLineParent: true})
}

// IfTooLongOrMultiLine is shorthand for the combination used by a guard list (see
// format.WithGuard), which must go fully multi-line as soon as it does not fit.
func IfTooLongOrMultiLine() Newline {
	return IfNewline(NewlineCond{TooLong: true, MultiLine: true})
}

// itemKind discriminates the union that makes up the layout tree.
type itemKind int

const (
	itemToken itemKind = iota
	itemComment
	itemSpace
	itemNewline
	itemRegion
)

// item is one node of the layout tree built by [Builder] and walked by [Renderer]. The
// zero value is not meaningful; items are only ever constructed by Builder methods.
type item struct {
	kind itemKind

	tok     token.VisibleToken // itemToken
	comment token.CommentToken // itemComment
	n       int                // itemSpace, itemNewline: count

	indent  Indent  // itemRegion
	newline Newline // itemRegion
	items   []*item // itemRegion: children

	// tail is, for an itemRegion, the region's own last descendant region (possibly
	// itself), maintained so addToken/addRegion can always append in source order
	// without re-walking the tree. It is nil for non-region items.
	tail *item
}

func newRegion(indent Indent, newline Newline) *item {
	r := &item{kind: itemRegion, indent: indent, newline: newline}
	r.tail = r
	return r
}

// addToken appends tok to the last open region in r's descendant chain, preserving
// strict source order.
func (r *item) addToken(tok token.VisibleToken) {
	r.tail.items = append(r.tail.items, &item{kind: itemToken, tok: tok})
}

// addComment appends a comment token the same way addToken appends a visible token.
func (r *item) addComment(c token.CommentToken) {
	r.tail.items = append(r.tail.items, &item{kind: itemComment, comment: c})
}

// addSpace appends an explicit Space(n) node.
func (r *item) addSpace(n int) {
	r.tail.items = append(r.tail.items, &item{kind: itemSpace, n: n})
}

// addNewline appends an explicit Newline(n) node.
func (r *item) addNewline(n int) {
	r.tail.items = append(r.tail.items, &item{kind: itemNewline, n: n})
}

// addRegion appends a completed child region and becomes the new tail, so that the next
// token or region emitted lands inside it rather than as a new sibling of r.
func (r *item) addRegion(child *item) {
	r.tail.items = append(r.tail.items, child)
	r.tail = child
}

// lastChild returns the last item appended to r's current tail region, or nil if it is
// still empty.
func (r *item) lastChild() *item {
	t := r.tail
	if len(t.items) == 0 {
		return nil
	}
	return t.items[len(t.items)-1]
}
