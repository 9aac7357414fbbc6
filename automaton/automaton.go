package automaton

import (
	"fmt"

	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/internal/ordered"
)

// Automaton is the canonical LR(1) (or, after ToLALR, LALR(1)) item-set
// DFA built from a grammar. State 0 is always the initial state.
type Automaton struct {
	States []*State
}

// Construct builds the canonical LR(1) automaton for g, using first to
// compute closure lookaheads. State 0's kernel is every rule whose LHS is
// the start symbol, dot 0, lookahead {Eof}, per the data model.
func Construct(g *grammar.Grammar, first *grammar.FirstTable) (*Automaton, error) {
	var kernel []*Item
	for i, rule := range g.Rules {
		if rule.LHS != g.StartSymbol {
			continue
		}
		la := ordered.NewSet[grammar.Token]()
		la.Add(grammar.EOFToken())
		kernel = append(kernel, &Item{Rule: rule, RuleIndex: i, Dot: 0, Lookahead: la})
	}
	if len(kernel) == 0 {
		return nil, fmt.Errorf("automaton: no rule has the start symbol %q as its LHS", g.StartSymbol)
	}

	closed := closure(kernel, g, first)
	initial := newState(0, closed)

	states := []*State{initial}
	bySignature := map[string]int{initial.signature(): 0}
	worklist := []int{0}

	for len(worklist) > 0 {
		idx := worklist[0]
		worklist = worklist[1:]
		current := states[idx]

		for _, x := range distinctNextPatterns(current.Items) {
			kernelX := advance(current.Items, x)
			closedX := closure(kernelX, g, first)
			candidate := newState(-1, closedX)
			sig := candidate.signature()

			if existingIdx, ok := bySignature[sig]; ok {
				current.Transitions.Set(x, existingIdx)
				continue
			}

			newIdx := len(states)
			candidate.ID = newIdx
			states = append(states, candidate)
			bySignature[sig] = newIdx
			current.Transitions.Set(x, newIdx)
			worklist = append(worklist, newIdx)
		}
	}

	return &Automaton{States: states}, nil
}

// closure repeats until stable: for each item A -> alpha . B beta with
// symbol B after the dot, the lookahead set added for every B -> gamma
// item is FIRST(beta a) for a in the item's own lookahead — concretely,
// FIRST(beta), plus the item's own lookahead if beta is nullable (or
// empty). Items with the same (rule, dot) already present have their
// lookaheads merged (union) rather than duplicated.
func closure(kernel []*Item, g *grammar.Grammar, first *grammar.FirstTable) []*Item {
	items := make([]*Item, len(kernel))
	byCore := make(map[[2]int]*Item, len(kernel))
	for i, it := range kernel {
		clone := &Item{Rule: it.Rule, RuleIndex: it.RuleIndex, Dot: it.Dot, Lookahead: it.Lookahead.Copy()}
		items[i] = clone
		byCore[clone.coreKey()] = clone
	}

	changed := true
	for changed {
		changed = false
		snapshot := append([]*Item(nil), items...)
		for _, it := range snapshot {
			next, ok := it.NextSymbol()
			if !ok || next.Kind != grammar.AtomicSymbol {
				continue
			}
			sym := next.Sym

			beta := it.Rule.Pattern[it.Dot+1:]
			betaFirst := grammar.FirstOfSequence(beta, first)

			for bi, brule := range g.Rules {
				if brule.LHS != sym {
					continue
				}
				key := [2]int{bi, 0}
				existing, present := byCore[key]
				if !present {
					existing = &Item{Rule: brule, RuleIndex: bi, Dot: 0, Lookahead: ordered.NewSet[grammar.Token]()}
					byCore[key] = existing
					items = append(items, existing)
					changed = true
				}
				if existing.Lookahead.AddAll(betaFirst.Tokens) {
					changed = true
				}
				if betaFirst.Nullable {
					if existing.Lookahead.AddAll(it.Lookahead) {
						changed = true
					}
				}
			}
		}
	}

	return items
}

// distinctNextPatterns returns, in first-seen order, the atomic patterns
// immediately following the dot among items that are not reduce-ready.
// Empty-pattern items never contribute a transition, uniformly (see
// Item.AtEnd).
func distinctNextPatterns(items []*Item) []grammar.AtomicPattern {
	seen := ordered.NewSet[grammar.AtomicPattern]()
	for _, it := range items {
		if next, ok := it.NextSymbol(); ok {
			seen.Add(next)
		}
	}
	return seen.Items()
}

// advance builds the kernel of the successor state under x: every item
// whose next symbol is x, with its dot moved one position forward and its
// lookahead carried over unchanged.
func advance(items []*Item, x grammar.AtomicPattern) []*Item {
	var out []*Item
	for _, it := range items {
		next, ok := it.NextSymbol()
		if !ok || !next.Equal(x) {
			continue
		}
		advanced := it.copyAdvanced()
		advanced.Lookahead = it.Lookahead.Copy()
		out = append(out, advanced)
	}
	return out
}

// ToLALR reduces the canonical LR(1) automaton to LALR(1) by grouping
// states with identical cores (item sets ignoring lookahead) and merging
// each group's lookaheads into one representative state. Transitions of
// every member of a group must agree once remapped to the new state ids;
// this is asserted, not silently tolerated: a mismatch, or a member item
// with no core-equal item in the seed, is returned as a plain error (not a
// conflict), and LALR passes that error on unchanged.
func (a *Automaton) ToLALR() (*Automaton, error) {
	groupOf := make(map[string][]int)
	coreOf := make([]string, len(a.States))
	for i, s := range a.States {
		c := s.core()
		coreOf[i] = c
		groupOf[c] = append(groupOf[c], i)
	}

	// Stable new ids: first time a core is seen (by lowest original state
	// id in the group, which is also processing order since states are
	// discovered breadth-first) gets the next new id.
	newID := make(map[string]int)
	oldToNew := make([]int, len(a.States))
	order := make([]string, 0, len(groupOf))
	for i := range a.States {
		c := coreOf[i]
		if _, ok := newID[c]; !ok {
			newID[c] = len(order)
			order = append(order, c)
		}
		oldToNew[i] = newID[c]
	}

	merged := make([]*State, len(order))
	for newIdx, core := range order {
		members := groupOf[core]
		seedOld := members[0]
		seed := a.States[seedOld]

		mergedItems := make([]*Item, len(seed.Items))
		for i, it := range seed.Items {
			mergedItems[i] = &Item{Rule: it.Rule, RuleIndex: it.RuleIndex, Dot: it.Dot, Lookahead: it.Lookahead.Copy()}
		}
		mergedState := newState(newIdx, mergedItems)

		for _, x := range seed.Transitions.Keys() {
			target, _ := seed.Transitions.Get(x)
			mergedState.Transitions.Set(x, oldToNew[target])
		}

		for _, memberOld := range members[1:] {
			member := a.States[memberOld]

			for _, x := range member.Transitions.Keys() {
				target, _ := member.Transitions.Get(x)
				want := oldToNew[target]
				if got, ok := mergedState.Transitions.Get(x); ok && got != want {
					return nil, fmt.Errorf("automaton: inconsistent transitions while merging state %d into %d on %s", memberOld, seedOld, x)
				}
				mergedState.Transitions.Set(x, want)
			}

			for _, it := range member.Items {
				target := mergedState.findItem(it)
				if target == nil {
					return nil, fmt.Errorf("automaton: state %d has no core-equal item for %s while merging into %d", memberOld, it, seedOld)
				}
				target.Lookahead.AddAll(it.Lookahead)
			}
		}

		merged[newIdx] = mergedState
	}

	return &Automaton{States: merged}, nil
}
