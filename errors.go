package lrpike

import (
	"fmt"

	"github.com/hallward/lrpike/grammar"
)

// ParserErrorKind distinguishes the ways building a Parser from a Grammar
// can fail.
type ParserErrorKind int

const (
	// EmptyGrammar means the grammar has no rules at all.
	EmptyGrammar ParserErrorKind = iota
	// UndefinedSymbol means a rule references a symbol with no rule
	// defining it.
	UndefinedSymbol
	// UndefinedRegexToken means a rule references a %name with no
	// matching regex binding.
	UndefinedRegexToken
	// Conflict means the ACTION table has a cell with more than one
	// action.
	Conflict
)

// ParserError reports a problem found while constructing a Parser from a
// Grammar. A Conflict error carries the fully constructed Parser so
// callers can dump its tables and automaton for diagnosis — a one-way
// ownership transfer (the error owns the parser), not a cycle.
type ParserError struct {
	Kind ParserErrorKind

	Symbol     grammar.Symbol
	RegexToken string
	Rule       grammar.Rule

	Parser *Parser
	State  int
	Token  grammar.Token
}

func (e *ParserError) Error() string {
	switch e.Kind {
	case EmptyGrammar:
		return "grammar is empty"
	case UndefinedSymbol:
		return fmt.Sprintf("symbol %s in rule %s is not defined", e.Symbol, e.Rule)
	case UndefinedRegexToken:
		return fmt.Sprintf("regex token %%%s in rule %s is not defined", e.RegexToken, e.Rule)
	case Conflict:
		return fmt.Sprintf("conflict at state %d on %s", e.State, e.Token)
	default:
		return "invalid parser error"
	}
}
