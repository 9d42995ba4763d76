package layout

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/arlojames/elfmt/internal/assert"
	"github.com/arlojames/elfmt/token"
)

// errTooLong signals that writing a region's body under its current transaction would
// exceed the render's column budget.
var errTooLong = errors.New("layout: line exceeds column budget")

// errNewlineDisallowed signals that the body tried to emit a bare newline while the
// enclosing transaction forbids it (the region has not yet committed to multiple lines).
var errNewlineDisallowed = errors.New("layout: newline not allowed in this region")

// multiLineParentErr is returned by a region that was asked, on entry, to watch for this
// condition (newlineIf with MultiLineParent set and the parent not yet multi-line): any
// failure while rendering its body means the region cannot be kept on one line, so rather
// than retry itself it asks its parent to switch to multi-line mode instead.
type multiLineParentErr struct {
	pos token.Position
}

func (e *multiLineParentErr) Error() string {
	return fmt.Sprintf("%s: a descendant region requires a multi-line parent", e.pos)
}

// transaction is one entry of the renderer's speculative-write stack. Each region
// rendered pushes one; aborting restores the shared buffer and column to what they were
// before the region started.
type transaction struct {
	parent *transaction

	indent int // column this transaction's own newlines indent to

	// allowMultiLine is this attempt's own static permission to emit a bare newline,
	// fixed for the lifetime of the attempt. multiLineMode is the dynamic fact that this
	// region or an ancestor has already committed, via a retry, to spanning multiple
	// lines; unlike allowMultiLine it is inherited by every descendant transaction and is
	// what newlineIf's MultiLineParent condition actually tests.
	allowMultiLine bool
	multiLineMode  bool
	allowTooLong   bool // this transaction may exceed the column budget without failing

	mark         int  // buf length at push, for abort
	column       int  // live column at push, for abort
	pendingSpace bool // lazy separator state at push, for abort
	pendingNL    int
	nextPos      token.Position // r.nextPos at push, for abort
}

// Renderer walks a layout tree built by [Builder] and writes it to a single growing
// buffer, using [transaction] to speculatively attempt and, on failure, roll back a
// region's body without touching a separate buffer per region.
type Renderer struct {
	buf    bytes.Buffer
	source string

	column int

	// pendingSpace and pendingNL implement the single lazily-flushed separator slot: at
	// most one of them is meaningful at a time, flushed immediately before the next
	// visible character is written, and droppable entirely if nothing follows.
	pendingSpace bool
	pendingNL    int

	// nextPos is how far into the source the renderer has already accounted for,
	// advanced past every token and comment written so far. writeToken clamps an
	// incoming token's slice to start no earlier than nextPos, so that a token whose
	// span was already (partially or fully) consumed by a preceding write — the
	// aftermath of macro expansion — contributes only its unconsumed remainder, or
	// nothing at all, rather than re-emitting already-written source text. Matches
	// original_source/src/format/transaction.rs's write_item, which skips characters
	// already past due to macro expansion.
	nextPos token.Position

	maxColumns int
	lastPos    token.Position
}

// Render lays out root, a tree built by [Builder], into source-ordered text. source is
// the original input text: every token and comment is written as its own
// source[start.Offset:end.Offset] slice, never a caller-supplied lexeme, so the output is
// guaranteed to reproduce the input's visible-token bytes verbatim. maxColumns is the
// column budget that If{TooLong: true} regions are measured against.
func Render(root *item, source string, maxColumns int) (string, error) {
	assert.That(root.kind == itemRegion, "Render: root must be a region")

	r := &Renderer{source: source, maxColumns: maxColumns}
	tx := &transaction{indent: 0, allowTooLong: true, allowMultiLine: true}
	if err := r.renderRegion(root, tx); err != nil {
		var mlp *multiLineParentErr
		if errors.As(err, &mlp) {
			return "", &PositionError{Pos: mlp.pos, Msg: "could not satisfy layout constraints"}
		}
		return "", err
	}
	return r.buf.String(), nil
}

// PositionError reports a layout failure that escaped the root region, together with the
// source position of the item that could not be satisfied.
type PositionError struct {
	Pos token.Position
	Msg string
}

func (e *PositionError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// push starts a speculative transaction for a child region, capturing enough of the
// renderer's live state to restore it on [Renderer.abort].
func (r *Renderer) push(parent *transaction, indent int, allowMultiLine, multiLineMode, allowTooLong bool) *transaction {
	return &transaction{
		parent:         parent,
		indent:         indent,
		allowMultiLine: allowMultiLine,
		multiLineMode:  multiLineMode,
		allowTooLong:   allowTooLong,
		mark:           r.buf.Len(),
		column:         r.column,
		pendingSpace:   r.pendingSpace,
		pendingNL:      r.pendingNL,
		nextPos:        r.nextPos,
	}
}

// abort discards everything written since tx was pushed.
func (r *Renderer) abort(tx *transaction) {
	r.buf.Truncate(tx.mark)
	r.column = tx.column
	r.pendingSpace = tx.pendingSpace
	r.pendingNL = tx.pendingNL
	r.nextPos = tx.nextPos
}

// resolveIndent applies an [Indent] policy against the enclosing transaction. For
// CurrentColumn it uses the renderer's live column, i.e. the column the parent
// transaction is actually sitting at right now — plus one if a single implicit space is
// still pending flush, since that space will land before whatever this region writes
// first (grounded on the formatter this package replaces, which folds a pending blank
// into its own current-column calculation for exactly this reason).
func (r *Renderer) resolveIndent(ind Indent, parent *transaction) int {
	switch ind.kind {
	case indentInherit:
		return parent.indent
	case indentOffset:
		return parent.indent + ind.n
	case indentParentOffset:
		if parent.parent != nil {
			return parent.parent.indent + ind.n
		}
		return parent.indent + ind.n
	case indentCurrentColumn:
		col := r.column
		if r.pendingSpace {
			col++
		}
		if col == 0 {
			return parent.indent
		}
		if col < parent.indent {
			return parent.indent
		}
		return col
	default:
		assert.Never("unknown indent kind %d", ind.kind)
		return 0
	}
}

// renderRegion writes reg's children under parent, retrying at most once under a relaxed
// configuration if the first attempt fails, per the region's [Newline] policy.
func (r *Renderer) renderRegion(reg *item, parent *transaction) error {
	indent := r.resolveIndent(reg.indent, parent)

	needsNewline := false
	allowMultiLine := true
	allowTooLong := true
	checkMultiLineParent := false

	switch reg.newline.kind {
	case newlineAlways:
		needsNewline = true
	case newlineNever:
		// defaults above stand: no forced newline, no extra restriction.
	case newlineIf:
		cond := reg.newline.cond
		allowMultiLine = !cond.MultiLine
		allowTooLong = !cond.TooLong
		if cond.MultiLineParent {
			if parent.multiLineMode {
				needsNewline = true
			} else {
				// This region must watch for its own failure and convert it into a
				// signal asking the parent to go multi-line, rather than retry itself:
				// forbid bare newlines here so any attempt to span multiple lines fails
				// immediately and is caught below.
				checkMultiLineParent = true
				allowMultiLine = false
			}
		}
	default:
		assert.Never("unknown newline kind %d", reg.newline.kind)
	}

	tx := r.push(parent, indent, allowMultiLine, parent.multiLineMode, allowTooLong)
	err := r.attempt(reg, tx, needsNewline)
	if err == nil {
		return nil
	}
	r.abort(tx)

	var mlp *multiLineParentErr
	retry, retryNeedsNewline, retryMultiLineMode := false, false, false
	switch {
	case checkMultiLineParent:
		return &multiLineParentErr{pos: r.lastPos}
	case errors.Is(err, errNewlineDisallowed) && !allowMultiLine:
		retry, retryNeedsNewline, retryMultiLineMode = true, true, false
	case errors.Is(err, errTooLong) && !allowTooLong:
		retry, retryNeedsNewline, retryMultiLineMode = true, true, false
	case errors.As(err, &mlp):
		retry, retryNeedsNewline, retryMultiLineMode = true, needsNewline, true
	}
	if !retry {
		return err
	}

	retryTx := r.push(parent, indent, true, retryMultiLineMode, true)
	colBeforeNewline := r.column
	err = r.attemptRetry(reg, retryTx, retryNeedsNewline, indent, colBeforeNewline)
	if err != nil {
		r.abort(retryTx)
		return err
	}
	return nil
}

// attempt renders reg's body under tx for a region's first try, forcing a leading newline
// first if needsNewline.
func (r *Renderer) attempt(reg *item, tx *transaction, needsNewline bool) error {
	if needsNewline {
		r.writeNewline(1)
	}
	return r.renderItems(reg.items, tx)
}

// attemptRetry renders reg's body for the one relaxed retry a region gets. A forced
// newline is only emitted if the column the region started at (colBefore, the column the
// aborted first attempt was rolled back to) is already past indent — if the region began
// at or before its own indent, a newline here would just produce a redundant blank line.
func (r *Renderer) attemptRetry(reg *item, tx *transaction, needsNewline bool, indent, colBefore int) error {
	if needsNewline && indent < colBefore {
		r.writeNewline(1)
	}
	return r.renderItems(reg.items, tx)
}

// renderItems writes a region's children in order under tx.
func (r *Renderer) renderItems(items []*item, tx *transaction) error {
	for _, it := range items {
		var err error
		switch it.kind {
		case itemToken:
			err = r.writeToken(it.tok, tx)
		case itemComment:
			err = r.writeComment(it.comment, tx)
		case itemSpace:
			r.writeSpace(it.n, tx)
		case itemNewline:
			if !tx.allowMultiLine && !tx.multiLineMode {
				return errNewlineDisallowed
			}
			r.writeNewline(it.n)
		case itemRegion:
			err = r.renderRegion(it, tx)
		default:
			assert.Never("unknown item kind %d", it.kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeToken writes a token's source slice (source_text[token.start...token.end)),
// flushing any pending separator first and failing if doing so would exceed the column
// budget under a restrictive transaction.
//
// The slice's start is clamped to no earlier than nextPos: if a preceding write already
// advanced past part or all of tok's span — the aftermath of macro expansion, matching
// original_source/src/format/transaction.rs's write_item — only the unconsumed remainder
// is written, or nothing at all if nextPos has already reached tok's end.
func (r *Renderer) writeToken(tok token.VisibleToken, tx *transaction) error {
	start := tok.Start.Offset
	if r.nextPos.IsValid() && r.nextPos.Offset > start {
		start = r.nextPos.Offset
	}
	end := tok.End.Offset
	if end < start {
		end = start
	}
	if start == end {
		return nil
	}

	r.flushPending(tx)
	if err := r.writeText(r.source[start:end], tx); err != nil {
		return err
	}
	r.lastPos = tok.Start
	r.nextPos = tok.End
	return nil
}

// writeComment writes a comment's literal source text.
func (r *Renderer) writeComment(c token.CommentToken, tx *transaction) error {
	r.flushPending(tx)
	text := r.source[c.Start.Offset:c.End.Offset]
	if err := r.writeText(text, tx); err != nil {
		return err
	}
	r.lastPos = c.Start
	r.nextPos = c.End
	return nil
}

// writeText writes s to the buffer, checking the column budget as it goes.
func (r *Renderer) writeText(s string, tx *transaction) error {
	for _, c := range s {
		if c == '\n' {
			r.column = 0
			continue
		}
		r.column++
		if !tx.allowTooLong && r.column > r.maxColumns {
			return errTooLong
		}
	}
	r.buf.WriteString(s)
	return nil
}

// writeSpace schedules n pending spaces. A single space participates in the lazy
// separator slot and is dropped entirely if a newline is already pending — a pending
// newline already supersedes an implicit single-space separator (grounded on the
// formatter this package replaces, which ignores a Blank whitespace request once a
// Newline request is already pending). A request for more than one space is an explicit
// alignment gap: any pending newline is honored first, then the gap is written fresh.
func (r *Renderer) writeSpace(n int, tx *transaction) {
	if n == 1 {
		if r.pendingNL == 0 {
			r.pendingSpace = true
		}
		return
	}
	r.flushPending(tx)
	r.buf.WriteString(spaces(n))
	r.column += n
}

// writeNewline schedules n pending newlines (n>1 requests a preserved blank line,
// collapsed to exactly one blank line regardless of how large n is).
func (r *Renderer) writeNewline(n int) {
	r.pendingSpace = false
	if n > 2 {
		n = 2
	}
	if n > r.pendingNL {
		r.pendingNL = n
	}
}

// flushPending materializes any scheduled separator immediately before the next visible
// character, indenting to tx's column if a newline is pending.
func (r *Renderer) flushPending(tx *transaction) {
	if r.pendingNL > 0 {
		for i := 0; i < r.pendingNL; i++ {
			r.buf.WriteByte('\n')
		}
		r.buf.WriteString(spaces(tx.indent))
		r.column = tx.indent
		r.pendingNL = 0
		r.pendingSpace = false
		return
	}
	if r.pendingSpace {
		r.buf.WriteByte(' ')
		r.column++
		r.pendingSpace = false
	}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
