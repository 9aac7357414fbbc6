// Package lrpike builds LR(1)/LALR(1) shift/reduce parsers from a textual
// grammar definition, tokenizes input against that grammar, and drives the
// shift/reduce machine to produce a concrete parse tree plus an optional
// step-by-step trace.
package lrpike

import (
	"github.com/hallward/lrpike/automaton"
	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/internal/ordered"
	"github.com/hallward/lrpike/lex"
	"github.com/hallward/lrpike/tables"
)

// Parser is the aggregate of a Grammar, its FIRST/FOLLOW tables, its
// automaton, and the ACTION/GOTO tables built from it. It is constructed
// once (via LR or LALR) and then used to Tokenize and Parse/Trace many
// inputs. It holds no per-parse state of its own, so it is safe to use
// concurrently across goroutines once construction returns.
type Parser struct {
	Grammar  *grammar.Grammar
	First    *grammar.FirstTable
	Follow   *grammar.FollowTable
	Automaton *automaton.Automaton
	Tables   *tables.ParsingTables
}

// LR builds a canonical LR(1) Parser from g.
func LR(g *grammar.Grammar) (*Parser, error) {
	return build(g, false)
}

// LALR builds an LALR(1) Parser from g by reducing the canonical LR(1)
// automaton: grouping states with identical cores and merging lookaheads.
func LALR(g *grammar.Grammar) (*Parser, error) {
	return build(g, true)
}

func build(g *grammar.Grammar, lalr bool) (*Parser, error) {
	if len(g.Rules) == 0 {
		return nil, &ParserError{Kind: EmptyGrammar}
	}

	// A symbol is "defined" iff some rule has it as an LHS; g.Symbols also
	// contains symbols that only ever appear referenced on a RHS (the
	// grammar parser records every symbol it sees, defined or not), so
	// that set alone cannot be used to detect an undefined reference.
	defined := ordered.NewSet[grammar.Symbol]()
	for _, rule := range g.Rules {
		defined.Add(rule.LHS)
	}

	for _, rule := range g.Rules {
		for _, ap := range rule.Pattern {
			switch ap.Kind {
			case grammar.AtomicSymbol:
				if !defined.Has(ap.Sym) {
					return nil, &ParserError{Kind: UndefinedSymbol, Symbol: ap.Sym, Rule: rule}
				}
			case grammar.AtomicToken:
				if ap.Tok.Kind == grammar.Regex {
					if !g.RegexTokens.Has(ap.Tok.Name) {
						return nil, &ParserError{Kind: UndefinedRegexToken, RegexToken: ap.Tok.Name, Rule: rule}
					}
				}
			}
		}
	}

	first := grammar.ComputeFirstTable(g)
	follow := grammar.ComputeFollowTable(g, first)

	auto, err := automaton.Construct(g, first)
	if err != nil {
		return nil, err
	}
	if lalr {
		auto, err = auto.ToLALR()
		if err != nil {
			return nil, err
		}
	}

	pt, err := tables.Construct(g, follow, auto)
	if err != nil {
		return nil, err
	}

	p := &Parser{Grammar: g, First: first, Follow: follow, Automaton: auto, Tables: pt}

	if state, token, conflict := pt.FindConflict(); conflict {
		return nil, &ParserError{Kind: Conflict, Parser: p, State: state, Token: token}
	}

	return p, nil
}

// Tokenize scans input against the parser's grammar, returning the
// lexeme sequence ending in a synthetic Eof lexeme.
func (p *Parser) Tokenize(input string) ([]lex.Lexeme, error) {
	return lex.Tokenize(p.Grammar, input)
}

// Parse tokenizes and parses input in one call, returning the resulting
// concrete parse tree.
func (p *Parser) Parse(input string) (*Tree, error) {
	lexemes, err := p.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return p.ParseTokens(lexemes)
}

// ParseTrace tokenizes and parses input, returning both the resulting
// tree and the recorded trace of driver steps.
func (p *Parser) ParseTrace(input string) (*Tree, *Trace, error) {
	lexemes, err := p.Tokenize(input)
	if err != nil {
		return nil, nil, err
	}
	return p.TraceTokens(lexemes)
}

// ParseTokens drives the shift/reduce machine over an already-tokenized
// lexeme sequence (which must end in Eof) without recording a trace.
func (p *Parser) ParseTokens(lexemes []lex.Lexeme) (*Tree, error) {
	tree, _, err := p.run(lexemes, false)
	return tree, err
}

// TraceTokens drives the shift/reduce machine over an already-tokenized
// lexeme sequence, recording a Step for every dispatch.
func (p *Parser) TraceTokens(lexemes []lex.Lexeme) (*Tree, *Trace, error) {
	return p.run(lexemes, true)
}
