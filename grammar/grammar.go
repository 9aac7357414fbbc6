// Package grammar models context-free grammars: symbols, tokens, rules,
// and the grammar as a whole, plus the text format they are read from and
// written back to.
package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hallward/lrpike/internal/ordered"
)

// Symbol is the name of a non-terminal. Equality is by string value.
type Symbol string

func (s Symbol) String() string { return string(s) }

// TokenKind distinguishes the four flavors of terminal.
type TokenKind int

const (
	// Empty is the epsilon token: it never appears in a parsing-table key,
	// only as the sole element of an empty-pattern rule.
	Empty TokenKind = iota
	// Constant is a literal string token, written `'...'` in grammar text.
	Constant
	// Regex is a named regular-expression token, written `%name`.
	Regex
	// EOF is the synthetic end-of-input token.
	EOF
)

// Token is a terminal: one of Empty (ε), a constant literal, a named
// regex binding, or EOF.
type Token struct {
	Kind TokenKind
	// Name holds the literal text for Constant tokens, or the binding name
	// (without the leading '%') for Regex tokens. Unused for Empty/EOF.
	Name string
}

// EmptyToken returns the epsilon token.
func EmptyToken() Token { return Token{Kind: Empty} }

// EOFToken returns the end-of-input token.
func EOFToken() Token { return Token{Kind: EOF} }

// ConstantToken returns a constant-literal token for the given literal
// text (without surrounding quotes).
func ConstantToken(literal string) Token { return Token{Kind: Constant, Name: literal} }

// RegexToken returns a named regex-binding token (without the leading
// '%').
func RegexToken(name string) Token { return Token{Kind: Regex, Name: name} }

func (t Token) String() string {
	switch t.Kind {
	case Empty:
		return "ε"
	case Constant:
		return "'" + t.Name + "'"
	case Regex:
		return "%" + t.Name
	case EOF:
		return "$"
	default:
		return "<invalid token>"
	}
}

// AtomicPatternKind distinguishes the two flavors of rule-RHS element.
type AtomicPatternKind int

const (
	// AtomicSymbol is a non-terminal reference.
	AtomicSymbol AtomicPatternKind = iota
	// AtomicToken is a terminal reference.
	AtomicToken
)

// AtomicPattern is a single element of a rule's right-hand side: either a
// reference to another symbol, or a token.
type AtomicPattern struct {
	Kind AtomicPatternKind
	Sym  Symbol
	Tok  Token
}

// SymbolPattern builds a symbol-reference atomic pattern.
func SymbolPattern(s Symbol) AtomicPattern {
	return AtomicPattern{Kind: AtomicSymbol, Sym: s}
}

// TokenPattern builds a token-reference atomic pattern.
func TokenPattern(t Token) AtomicPattern {
	return AtomicPattern{Kind: AtomicToken, Tok: t}
}

// Equal reports whether two atomic patterns refer to the same symbol or
// token.
func (a AtomicPattern) Equal(o AtomicPattern) bool {
	if a.Kind != o.Kind {
		return false
	}
	if a.Kind == AtomicSymbol {
		return a.Sym == o.Sym
	}
	return a.Tok == o.Tok
}

func (a AtomicPattern) String() string {
	if a.Kind == AtomicSymbol {
		return string(a.Sym)
	}
	return a.Tok.String()
}

// Rule is a single production: an LHS symbol and an ordered RHS pattern.
type Rule struct {
	LHS     Symbol
	Pattern []AtomicPattern
}

// IsEmptyPattern reports whether the rule's pattern is the single element
// Token(Empty) — i.e. `LHS -> ''`.
func (r Rule) IsEmptyPattern() bool {
	return len(r.Pattern) == 1 && r.Pattern[0].Kind == AtomicToken && r.Pattern[0].Tok.Kind == Empty
}

// Equal reports whether two rules have the same LHS and pattern.
func (r Rule) Equal(o Rule) bool {
	if r.LHS != o.LHS || len(r.Pattern) != len(o.Pattern) {
		return false
	}
	for i := range r.Pattern {
		if !r.Pattern[i].Equal(o.Pattern[i]) {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	parts := make([]string, len(r.Pattern))
	for i, ap := range r.Pattern {
		parts[i] = ap.String()
	}
	return fmt.Sprintf("%s -> %s", r.LHS, strings.Join(parts, " "))
}

// Grammar is an immutable context-free grammar: its symbols, tokens, and
// rules, all in insertion order.
type Grammar struct {
	Symbols        *ordered.Set[Symbol]
	StartSymbol    Symbol
	EmptySymbols   *ordered.Set[Symbol]
	ConstantTokens *ordered.Set[string]
	RegexTokens    *ordered.Map[string, *regexp.Regexp]
	// RegexSource preserves the user-written pattern text (without the
	// start anchor prepended for compilation), for pretty-printing.
	RegexSource *ordered.Map[string, string]
	Rules       []Rule
}

// RuleByIndex looks up a rule by its 0-based index. Reductions reference rules by
// this index.
func (g *Grammar) RuleByIndex(i int) Rule {
	return g.Rules[i]
}

// IndexOfRule returns the 0-based index of r within g.Rules, comparing by
// value equality (not identity), or -1 if not found.
func (g *Grammar) IndexOfRule(r Rule) int {
	for i, candidate := range g.Rules {
		if candidate.Equal(r) {
			return i
		}
	}
	return -1
}

// String renders the grammar back into the source text format described
// in the grammar source format reference: rules first (grouped by nothing
// in particular, in declaration order), then regex bindings. Re-parsing
// the output produces an equal grammar, up to insertion order of symbols
// that are only ever referenced (never declared via a rule of their own).
func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.Rules {
		if r.IsEmptyPattern() {
			fmt.Fprintf(&b, "%s -> ''\n", r.LHS)
			continue
		}
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	for _, name := range g.RegexTokens.Keys() {
		src, _ := g.RegexSource.Get(name)
		fmt.Fprintf(&b, "%%%s -> /%s/\n", name, src)
	}
	return b.String()
}
