// Package layout implements a transactional, region-based text layout engine.
//
// Grammar items (tuples, clauses, bitstrings, ...) build a tree of item nodes through a
// [Builder]: tokens, explicit spaces and newlines, and nested regions each carrying an
// [Indent] policy and a [Newline] policy. A [Renderer] then walks that tree depth-first,
// writing text under a stack of speculative transactions. Entering a region pushes a new
// transaction with a relaxed or restricted configuration; if rendering the region's body
// fails (the body would exceed the column budget, or would need a newline the region
// forbids), the transaction is discarded and, when the region's own policy covers that
// failure, the region is retried exactly once under a relaxed config; otherwise the
// failure goes straight to the parent. A region that still cannot satisfy its
// constraints on retry propagates the failure to its parent, which may itself retry or
// propagate further — so a single
// untidy leaf only ever costs one extra attempt per ancestor region, never a global
// re-layout.
//
// This is deliberately not the Wadler/Oppen "measure, then decide to break" style of
// pretty-printing: regions do not know their own rendered width up front. Instead they
// attempt the cheapest layout first (inherited indent, no forced newlines, everything on
// one line) and fall back to a more permissive layout only on demonstrated failure. See
// the retry rules implemented by [Renderer.renderRegion] for the exact table.
package layout
