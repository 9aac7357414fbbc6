package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hallward/lrpike/internal/ordered"
)

// GrammarErrorKind distinguishes the three ways grammar source text can
// fail to parse.
type GrammarErrorKind int

const (
	// UnexpectedToken means a token other than any of Expected was found.
	UnexpectedToken GrammarErrorKind = iota
	// UnexpectedEof means the input ended where one of Expected was
	// required.
	UnexpectedEof
	// InvalidRegex means a %name -> /regex/ binding's pattern failed to
	// compile.
	InvalidRegex
)

// GrammarError reports a problem found while parsing grammar source text.
type GrammarError struct {
	Kind     GrammarErrorKind
	Line     int
	Column   int
	Token    string
	Expected []string
	Regex    string
}

func (e *GrammarError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("%d:%d: unexpected token %q, expected %s", e.Line, e.Column, e.Token, joinExpected(e.Expected))
	case UnexpectedEof:
		return fmt.Sprintf("unexpected end of grammar, expected %s", joinExpected(e.Expected))
	case InvalidRegex:
		return fmt.Sprintf("%d:%d: invalid regex /%s/", e.Line, e.Column, e.Regex)
	default:
		return "invalid grammar error"
	}
}

func joinExpected(items []string) string {
	switch len(items) {
	case 0:
		return "nothing"
	case 1:
		return items[0]
	default:
		return "one of " + strings.Join(items, ", ")
	}
}

// --- grammar source lexer -------------------------------------------------

type gTokKind int

const (
	gTokSymbol gTokKind = iota
	gTokArrow
	gTokConstant
	gTokRegexName
	gTokRegexLiteral
	gTokNewline
	gTokEOF
)

type gTok struct {
	kind         gTokKind
	text         string
	line, column int
}

type glexer struct {
	src          string
	pos          int // byte offset
	line, column int
}

func newGLexer(src string) *glexer {
	return &glexer{src: src, line: 1, column: 1}
}

func (l *glexer) peekByte() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *glexer) advanceRune() (rune, int) {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r, size
}

// next returns the next significant token, skipping spaces/tabs/CR/FF and
// comments, but not newlines (newlines are significant: they terminate
// rules and regex bindings).
func (l *glexer) next() (gTok, *GrammarError) {
	for {
		b, ok := l.peekByte()
		if !ok {
			return gTok{kind: gTokEOF, line: l.line, column: l.column}, nil
		}
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\f':
			l.advanceRune()
			continue
		case b == '#':
			for {
				b2, ok2 := l.peekByte()
				if !ok2 || b2 == '\n' {
					break
				}
				l.advanceRune()
			}
			continue
		case b == '\n':
			line, col := l.line, l.column
			l.advanceRune()
			return gTok{kind: gTokNewline, line: line, column: col}, nil
		case b == '-':
			line, col := l.line, l.column
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
				l.advanceRune()
				l.advanceRune()
				return gTok{kind: gTokArrow, text: "->", line: line, column: col}, nil
			}
			return gTok{}, &GrammarError{Kind: UnexpectedToken, Line: line, Column: col, Token: "-", Expected: []string{"->"}}
		case b == '\'':
			line, col := l.line, l.column
			l.advanceRune()
			var sb strings.Builder
			for {
				b2, ok2 := l.peekByte()
				if !ok2 {
					return gTok{}, &GrammarError{Kind: UnexpectedEof, Expected: []string{"'"}}
				}
				if b2 == '\'' {
					l.advanceRune()
					break
				}
				r, _ := l.advanceRune()
				sb.WriteRune(r)
			}
			return gTok{kind: gTokConstant, text: sb.String(), line: line, column: col}, nil
		case b == '/':
			line, col := l.line, l.column
			l.advanceRune()
			var sb strings.Builder
			for {
				b2, ok2 := l.peekByte()
				if !ok2 {
					return gTok{}, &GrammarError{Kind: UnexpectedEof, Expected: []string{"/"}}
				}
				if b2 == '/' {
					l.advanceRune()
					break
				}
				r, _ := l.advanceRune()
				sb.WriteRune(r)
			}
			return gTok{kind: gTokRegexLiteral, text: sb.String(), line: line, column: col}, nil
		case b == '%':
			line, col := l.line, l.column
			l.advanceRune()
			var sb strings.Builder
			for {
				b2, ok2 := l.peekByte()
				if !ok2 || !isSymbolByte(b2) {
					break
				}
				r, _ := l.advanceRune()
				sb.WriteRune(r)
			}
			if sb.Len() == 0 {
				return gTok{}, &GrammarError{Kind: UnexpectedToken, Line: line, Column: col, Token: "%", Expected: []string{"regex token name"}}
			}
			return gTok{kind: gTokRegexName, text: sb.String(), line: line, column: col}, nil
		case isSymbolByte(b):
			line, col := l.line, l.column
			var sb strings.Builder
			for {
				b2, ok2 := l.peekByte()
				if !ok2 || !isSymbolByte(b2) {
					break
				}
				r, _ := l.advanceRune()
				sb.WriteRune(r)
			}
			return gTok{kind: gTokSymbol, text: sb.String(), line: line, column: col}, nil
		default:
			line, col := l.line, l.column
			r, _ := l.advanceRune()
			return gTok{}, &GrammarError{Kind: UnexpectedToken, Line: line, Column: col, Token: string(r), Expected: []string{"symbol", "regex token", "'->'"}}
		}
	}
}

func isSymbolByte(b byte) bool {
	return unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

// --- grammar source parser -------------------------------------------------

type pendingRule struct {
	symbol  Symbol
	pattern []AtomicPattern
}

// Parse reads grammar source text into a Grammar value.
//
// Rules may share an LHS across multiple lines; the start symbol is the
// LHS of the first rule. A pattern consisting solely of the empty literal
// '' records its LHS in EmptySymbols; any stray Token(Empty) elsewhere in
// a non-empty pattern is stripped. Regex bindings are compiled with a
// leading '^' anchor so matches only attach at the current cursor.
func Parse(src string) (*Grammar, error) {
	g := &Grammar{
		Symbols:        ordered.NewSet[Symbol](),
		EmptySymbols:   ordered.NewSet[Symbol](),
		ConstantTokens: ordered.NewSet[string](),
		RegexTokens:    ordered.NewMap[string, *regexp.Regexp](),
		RegexSource:    ordered.NewMap[string, string](),
	}

	lx := newGLexer(src)

	var rules []pendingRule
	haveStart := false

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		switch tok.kind {
		case gTokEOF:
			finalizeRules(g, rules, &haveStart)
			return g, nil

		case gTokNewline:
			continue

		case gTokSymbol:
			sym := Symbol(tok.text)
			g.Symbols.Add(sym)
			if !haveStart {
				g.StartSymbol = sym
				haveStart = true
			}

			arrow, err := lx.next()
			if err != nil {
				return nil, err
			}
			if arrow.kind == gTokEOF {
				return nil, &GrammarError{Kind: UnexpectedEof, Expected: []string{"'->'"}}
			}
			if arrow.kind != gTokArrow {
				return nil, &GrammarError{Kind: UnexpectedToken, Line: arrow.line, Column: arrow.column, Token: arrow.text, Expected: []string{"'->'"}}
			}

			pattern, done, err := parsePattern(lx, g)
			if err != nil {
				return nil, err
			}
			rules = append(rules, pendingRule{symbol: sym, pattern: pattern})
			if done {
				finalizeRules(g, rules, &haveStart)
				return g, nil
			}

		case gTokRegexName:
			name := tok.text

			arrow, err := lx.next()
			if err != nil {
				return nil, err
			}
			if arrow.kind == gTokEOF {
				return nil, &GrammarError{Kind: UnexpectedEof, Expected: []string{"'->'"}}
			}
			if arrow.kind != gTokArrow {
				return nil, &GrammarError{Kind: UnexpectedToken, Line: arrow.line, Column: arrow.column, Token: arrow.text, Expected: []string{"'->'"}}
			}

			lit, err := lx.next()
			if err != nil {
				return nil, err
			}
			if lit.kind == gTokEOF {
				return nil, &GrammarError{Kind: UnexpectedEof, Expected: []string{"regex literal"}}
			}
			if lit.kind != gTokRegexLiteral {
				return nil, &GrammarError{Kind: UnexpectedToken, Line: lit.line, Column: lit.column, Token: lit.text, Expected: []string{"regex literal"}}
			}

			compiled, cerr := regexp.Compile("^(?:" + lit.text + ")")
			if cerr != nil {
				return nil, &GrammarError{Kind: InvalidRegex, Line: lit.line, Column: lit.column, Regex: lit.text}
			}
			g.RegexTokens.Set(name, compiled)
			g.RegexSource.Set(name, lit.text)

			nl, err := lx.next()
			if err != nil {
				return nil, err
			}
			if nl.kind == gTokEOF {
				finalizeRules(g, rules, &haveStart)
				return g, nil
			}
			if nl.kind != gTokNewline {
				return nil, &GrammarError{Kind: UnexpectedToken, Line: nl.line, Column: nl.column, Token: nl.text, Expected: []string{"newline"}}
			}

		default:
			return nil, &GrammarError{Kind: UnexpectedToken, Line: tok.line, Column: tok.column, Token: tok.text, Expected: []string{"symbol", "regex token"}}
		}
	}
}

// parsePattern reads atomic patterns until a newline or EOF, which ends
// the rule. Returns the pattern and whether EOF (not just newline) was
// hit.
func parsePattern(lx *glexer, g *Grammar) ([]AtomicPattern, bool, *GrammarError) {
	var pattern []AtomicPattern
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, false, err
		}
		switch tok.kind {
		case gTokNewline:
			return pattern, false, nil
		case gTokEOF:
			return pattern, true, nil
		case gTokSymbol:
			sym := Symbol(tok.text)
			g.Symbols.Add(sym)
			pattern = append(pattern, SymbolPattern(sym))
		case gTokConstant:
			if tok.text == "" {
				pattern = append(pattern, TokenPattern(EmptyToken()))
			} else {
				g.ConstantTokens.Add(tok.text)
				pattern = append(pattern, TokenPattern(ConstantToken(tok.text)))
			}
		case gTokRegexName:
			pattern = append(pattern, TokenPattern(RegexToken(tok.text)))
		default:
			return nil, false, &GrammarError{Kind: UnexpectedToken, Line: tok.line, Column: tok.column, Token: tok.text, Expected: []string{"symbol", "constant", "regex token", "newline"}}
		}
	}
}

// finalizeRules converts the pending rule list into Grammar.Rules,
// recording pure-empty-pattern LHSs into EmptySymbols and stripping stray
// Empty tokens from non-empty patterns.
func finalizeRules(g *Grammar, pending []pendingRule, haveStart *bool) {
	for _, p := range pending {
		rule := Rule{LHS: p.symbol, Pattern: p.pattern}
		if rule.IsEmptyPattern() {
			g.EmptySymbols.Add(p.symbol)
		} else if len(rule.Pattern) > 1 {
			filtered := rule.Pattern[:0:0]
			for _, ap := range rule.Pattern {
				if ap.Kind == AtomicToken && ap.Tok.Kind == Empty {
					continue
				}
				filtered = append(filtered, ap)
			}
			rule.Pattern = filtered
		}
		g.Rules = append(g.Rules, rule)
	}
}
