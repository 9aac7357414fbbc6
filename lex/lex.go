// Package lex implements the longest-match tokenizer driven by a
// grammar's constant literals and regex bindings.
package lex

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/span"
)

// ParsingErrorKind distinguishes the ways tokenizing or parsing an input
// can fail.
type ParsingErrorKind int

const (
	// UnknownToken means no constant literal or regex binding matched at
	// the cursor.
	UnknownToken ParsingErrorKind = iota
	// UnexpectedToken means the current token is not one the parser state
	// accepts.
	UnexpectedToken
	// UnexpectedEof means Eof was reached where a non-empty expected set
	// was required.
	UnexpectedEof
)

// ParsingError reports a problem found while tokenizing or parsing an
// input string. It is shared by the tokenizer (UnknownToken) and the
// shift/reduce driver (UnexpectedToken, UnexpectedEof) so that callers
// have one error type to match on for the whole parse surface.
type ParsingError struct {
	Kind     ParsingErrorKind
	Token    string
	Expected []grammar.Token
	Span     span.Span
}

func (e *ParsingError) Error() string {
	switch e.Kind {
	case UnknownToken:
		return fmt.Sprintf("%s: unknown token %q", e.Span, e.Token)
	case UnexpectedToken:
		return fmt.Sprintf("%s: unexpected token %q, expected %s", e.Span, e.Token, joinTokens(e.Expected))
	case UnexpectedEof:
		return fmt.Sprintf("%s: unexpected end of input, expected %s", e.Span, joinTokens(e.Expected))
	default:
		return "invalid parsing error"
	}
}

func joinTokens(toks []grammar.Token) string {
	if len(toks) == 0 {
		return "nothing"
	}
	if len(toks) == 1 {
		return toks[0].String()
	}
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return "one of " + strings.Join(parts, ", ")
}

// Lexeme is one scanned token together with its span and the exact slice
// of input it matched.
type Lexeme struct {
	Token grammar.Token
	Span  span.Span
	Slice string
}

const whitespace = " \t\r\f\n"

// Tokenize scans input against g's constant literals and regex bindings:
// at each cursor position, after skipping leading whitespace,
// try every constant literal (longest wins among constants), then every
// regex (adopted only if strictly longer than the best constant match).
// If nothing matches, the first codepoint is reported as UnknownToken. A
// synthetic Eof lexeme with zero length terminates the sequence.
func Tokenize(g *grammar.Grammar, input string) ([]Lexeme, error) {
	sortedConstants := append([]string(nil), g.ConstantTokens.Items()...)
	sort.Slice(sortedConstants, func(i, j int) bool { return len(sortedConstants[i]) < len(sortedConstants[j]) })

	var out []Lexeme
	offset := 0
	line, column := 1, 1

	advance := func(n int) {
		for n > 0 {
			r, size := utf8.DecodeRuneInString(input[offset:])
			offset += size
			n -= size
			if r == '\n' {
				line++
				column = 1
			} else {
				column++
			}
		}
	}

	for {
		for offset < len(input) && strings.IndexByte(whitespace, input[offset]) >= 0 {
			advance(1)
		}

		if offset >= len(input) {
			out = append(out, Lexeme{
				Token: grammar.EOFToken(),
				Span:  span.Span{Offset: offset, Length: 0, Line: line, Column: column},
				Slice: "",
			})
			return out, nil
		}

		remaining := input[offset:]

		bestLen := -1
		var bestLiteral string
		for i := len(sortedConstants) - 1; i >= 0; i-- {
			lit := sortedConstants[i]
			if lit == "" {
				continue
			}
			if strings.HasPrefix(remaining, lit) && len(lit) > bestLen {
				bestLen = len(lit)
				bestLiteral = lit
			}
		}

		var bestToken grammar.Token
		haveMatch := bestLen >= 0
		if haveMatch {
			bestToken = grammar.ConstantToken(bestLiteral)
		}

		for _, name := range g.RegexTokens.Keys() {
			re, _ := g.RegexTokens.Get(name)
			loc := re.FindStringIndex(remaining)
			if loc == nil || loc[0] != 0 {
				continue
			}
			if loc[1] > bestLen {
				bestLen = loc[1]
				bestToken = grammar.RegexToken(name)
				haveMatch = true
			}
		}

		if !haveMatch {
			r, _ := utf8.DecodeRuneInString(remaining)
			return nil, &ParsingError{
				Kind:  UnknownToken,
				Token: string(r),
				Span:  span.Span{Offset: offset, Length: utf8.RuneLen(r), Line: line, Column: column},
			}
		}

		sp := span.Span{Offset: offset, Length: bestLen, Line: line, Column: column}
		slice := remaining[:bestLen]
		out = append(out, Lexeme{Token: bestToken, Span: sp, Slice: slice})
		advance(bestLen)
	}
}
