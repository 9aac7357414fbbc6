package lrpike

import (
	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/lex"
	"github.com/hallward/lrpike/tables"
)

// run is the shift/reduce driver loop. lexemes must end
// in an Eof lexeme. When trace is true, a Step snapshot is recorded
// before every dispatch.
func (p *Parser) run(lexemes []lex.Lexeme, trace bool) (*Tree, *Trace, error) {
	if len(lexemes) == 0 {
		return nil, nil, &lex.ParsingError{Kind: lex.UnexpectedEof}
	}

	stateStack := []int{0}
	var treeStack []*Tree

	pos := 0
	current := lexemes[pos]

	var tr *Trace
	if trace {
		tr = &Trace{}
	}

	for {
		s := stateStack[len(stateStack)-1]
		actions := p.Tables.ActionTable[s]

		set, ok := actions.Get(current.Token)
		if !ok {
			expected := actions.Keys()
			if current.Token.Kind == grammar.EOF {
				return nil, tr, &lex.ParsingError{Kind: lex.UnexpectedEof, Expected: expected, Span: current.Span}
			}
			return nil, tr, &lex.ParsingError{Kind: lex.UnexpectedToken, Token: current.Slice, Expected: expected, Span: current.Span}
		}

		// Conflict-free by construction: LR/LALR construction rejects any
		// grammar whose ACTION table has a multi-action cell before a
		// Parser is ever returned, so this set always has exactly one
		// entry here.
		action := set.Items()[0]

		if trace {
			remaining := make([]lex.Lexeme, 0, len(lexemes)-pos)
			remaining = append(remaining, lexemes[pos:]...)
			tr.Steps = append(tr.Steps, Step{
				StateStack:      append([]int(nil), stateStack...),
				TreeStack:       append([]*Tree(nil), treeStack...),
				RemainingTokens: remaining,
				Action:          action,
			})
		}

		switch action.Kind {
		case tables.Shift:
			stateStack = append(stateStack, action.NextState)
			treeStack = append(treeStack, Terminal(current.Token, current.Span, current.Slice))
			pos++
			current = lexemes[pos]

		case tables.Reduce:
			rule := p.Grammar.RuleByIndex(action.RuleIndex)
			popLen := len(rule.Pattern)
			if rule.IsEmptyPattern() {
				popLen = 0
			}

			children := append([]*Tree(nil), treeStack[len(treeStack)-popLen:]...)
			treeStack = treeStack[:len(treeStack)-popLen]
			stateStack = stateStack[:len(stateStack)-popLen]

			nt := NonTerminal(rule.LHS, children)
			treeStack = append(treeStack, nt)

			top := stateStack[len(stateStack)-1]
			gotoTo, ok := p.Tables.GotoTable[top].Get(rule.LHS)
			if !ok {
				return nil, tr, &lex.ParsingError{Kind: lex.UnexpectedToken, Token: string(rule.LHS), Span: current.Span}
			}
			stateStack = append(stateStack, gotoTo)

		case tables.Accept:
			result := NonTerminal(p.Grammar.StartSymbol, append([]*Tree(nil), treeStack...))
			return result, tr, nil
		}
	}
}
