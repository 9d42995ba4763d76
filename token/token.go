package token

import "fmt"

// Kind represents the kind of a visible (non-comment, non-whitespace) token produced by
// the external lexer/parser.
type Kind int

const (
	// Atom is a lowercase-leading bare or quoted identifier, e.g. foo, 'Foo Bar'.
	Atom Kind = iota
	// Char is a character literal, e.g. $a.
	Char
	// Float is a floating point literal, e.g. 12.3.
	Float
	// Integer is an integer literal, e.g. 12, 16#ff.
	Integer
	// Keyword is a reserved word, e.g. when, case, end.
	Keyword
	// String is a double-quoted string literal, e.g. "foo".
	String
	// Symbol is punctuation or an operator, e.g. {, ->, +.
	Symbol
	// Variable is an uppercase-leading or underscore-leading identifier, e.g. X, _Foo.
	Variable
)

// String returns the token kind's name, for diagnostics.
func (k Kind) String() string {
	switch k {
	case Atom:
		return "atom"
	case Char:
		return "char"
	case Float:
		return "float"
	case Integer:
		return "integer"
	case Keyword:
		return "keyword"
	case String:
		return "string"
	case Symbol:
		return "symbol"
	case Variable:
		return "variable"
	default:
		panic(fmt.Sprintf("missing String() case for token.Kind: %d", k))
	}
}

// isAlphanumeric reports whether tokens of kind k read as a word (as opposed to
// punctuation) for the purposes of [NeedsSpace]: atoms, variables, numbers, chars,
// strings and keywords all need separating from a like neighbor, symbols do not.
func (k Kind) isAlphanumeric() bool {
	return k != Symbol
}

// VisibleToken is a single lexical token the layout engine may place in the output: one
// of atom, char, float, integer, keyword, string, symbol, or variable. Lexeme holds the
// literal text for kinds where a grammar item needs to inspect it without re-slicing the
// source (atom, string, variable — e.g. to compare an atom's name); it is unused (and may
// be empty) for the others. The engine itself never writes Lexeme: every token is rendered
// from source_text[Start.Offset:End.Offset], so Lexeme plays no role in output and need
// not be kept in sync with the caller's own source text.
type VisibleToken struct {
	Kind       Kind
	Lexeme     string
	Start, End Position
}

// StartPosition implements [Span].
func (t VisibleToken) StartPosition() Position { return t.Start }

// EndPosition implements [Span].
func (t VisibleToken) EndPosition() Position { return t.End }

// IsEmpty reports whether t spans zero bytes of source text, e.g. a token left behind by
// a fully-expanded macro call.
func (t VisibleToken) IsEmpty() bool { return IsEmpty(t) }

// NeedsSpace reports whether an implicit single space must separate two adjacent visible
// tokens prev and next so that re-lexing the formatted output reproduces the same token
// stream. The rule is symmetric and deterministic: it depends only on the pair of kinds,
// never on lexeme content or position.
//
// Two alphanumeric-like tokens (atoms, variables, numbers, chars, strings, keywords)
// always need a separator, since concatenating them without one would lex as a single
// token or change meaning (e.g. "foo" next to "bar" must not become "foobar"). A symbol
// next to an alphanumeric token, or two symbols next to each other, does not need an
// implicit space: grammar items that want one around a symbol (delimiters, operators)
// emit it explicitly via Builder.AddSpace.
func NeedsSpace(prev, next Kind) bool {
	return prev.isAlphanumeric() && next.isAlphanumeric()
}
