// Package tables builds the ACTION/GOTO parsing tables from an automaton
// and detects shift/reduce and reduce/reduce conflicts.
package tables

import (
	"fmt"

	"github.com/hallward/lrpike/automaton"
	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/internal/ordered"
)

// ActionKind distinguishes the three parsing actions.
type ActionKind int

const (
	// Shift consumes the current input token and transitions to a new
	// state.
	Shift ActionKind = iota
	// Reduce applies a rule to the top of the stacks and performs a goto.
	Reduce
	// Accept finishes the parse.
	Accept
)

// Action is one entry of an ACTION table cell.
type Action struct {
	Kind      ActionKind
	NextState int
	RuleIndex int
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("s%d", a.NextState)
	case Reduce:
		return fmt.Sprintf("r%d", a.RuleIndex+1)
	case Accept:
		return fmt.Sprintf("a%d", a.RuleIndex+1)
	default:
		return "<invalid action>"
	}
}

// ParsingTables is the ACTION and GOTO tables of a parser, indexed by
// state id.
type ParsingTables struct {
	ActionTable []*ordered.Map[grammar.Token, *ordered.Set[Action]]
	GotoTable   []*ordered.Map[grammar.Symbol, int]
}

// Construct builds the parsing tables for g's automaton: for
// every reduce-ready item (dot at end, or an empty-pattern rule
// uniformly), add a Reduce (or Accept, at the start symbol on Eof) entry
// for every token in FOLLOW(lhs) that is also in the item's own
// lookahead; for every other item, add a Shift entry (token) or a Goto
// entry (symbol) from the state's transition under the symbol following
// the dot.
func Construct(g *grammar.Grammar, follow *grammar.FollowTable, a *automaton.Automaton) (*ParsingTables, error) {
	pt := &ParsingTables{
		ActionTable: make([]*ordered.Map[grammar.Token, *ordered.Set[Action]], len(a.States)),
		GotoTable:   make([]*ordered.Map[grammar.Symbol, int], len(a.States)),
	}

	for _, state := range a.States {
		actions := ordered.NewMap[grammar.Token, *ordered.Set[Action]]()
		gotos := ordered.NewMap[grammar.Symbol, int]()

		for _, item := range state.Items {
			if item.AtEnd() {
				followSet, ok := follow.Get(item.Rule.LHS)
				if !ok {
					continue
				}
				for _, tok := range followSet.Items() {
					if !item.Lookahead.Has(tok) {
						continue
					}
					if tok.Kind == grammar.EOF && item.Rule.LHS == g.StartSymbol {
						addAction(actions, tok, Action{Kind: Accept, RuleIndex: item.RuleIndex})
					} else {
						addAction(actions, tok, Action{Kind: Reduce, RuleIndex: item.RuleIndex})
					}
				}
				continue
			}

			next, _ := item.NextSymbol()
			target, ok := state.Transitions.Get(next)
			if !ok {
				return nil, fmt.Errorf("tables: state %d has no transition for %s despite item %s", state.ID, next, item)
			}
			if next.Kind == grammar.AtomicSymbol {
				gotos.Set(next.Sym, target)
			} else {
				addAction(actions, next.Tok, Action{Kind: Shift, NextState: target})
			}
		}

		pt.ActionTable[state.ID] = actions
		pt.GotoTable[state.ID] = gotos
	}

	return pt, nil
}

func addAction(actions *ordered.Map[grammar.Token, *ordered.Set[Action]], tok grammar.Token, act Action) {
	set, ok := actions.Get(tok)
	if !ok {
		set = ordered.NewSet[Action]()
		actions.Set(tok, set)
	}
	set.Add(act)
}

// FindConflict reports the first (state, token) cell whose action set has
// more than one entry, in state-id then token-insertion order — a
// shift/reduce or reduce/reduce conflict. ok is false if the table has no
// conflicts.
func (pt *ParsingTables) FindConflict() (state int, token grammar.Token, ok bool) {
	for s, actions := range pt.ActionTable {
		for _, tok := range actions.Keys() {
			set, _ := actions.Get(tok)
			if set.Len() > 1 {
				return s, tok, true
			}
		}
	}
	return 0, grammar.Token{}, false
}
