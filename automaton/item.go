// Package automaton builds the canonical LR(1) item-set DFA for a grammar
// and reduces it to LALR(1) by merging states with identical cores.
package automaton

import (
	"fmt"
	"strings"

	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/internal/ordered"
)

// Item is a rule together with a dot position and a lookahead set: how far
// the rule has been matched, and what terminals may legally follow once it
// is reduced.
type Item struct {
	Rule      grammar.Rule
	RuleIndex int
	Dot       int
	Lookahead *ordered.Set[grammar.Token]
}

// AtEnd reports whether the item is reduce-ready: the dot has reached the
// end of the pattern, or the rule is an empty-pattern rule, uniformly and
// regardless of the numeric dot value. Empty-pattern items never receive
// a transition, so their dot always stays at 0; without this special case
// they would never be recognized as reduce-ready.
func (it *Item) AtEnd() bool {
	return it.Rule.IsEmptyPattern() || it.Dot == len(it.Rule.Pattern)
}

// NextSymbol returns the atomic pattern immediately after the dot, and
// whether one exists (it does not for a reduce-ready item).
func (it *Item) NextSymbol() (grammar.AtomicPattern, bool) {
	if it.AtEnd() {
		return grammar.AtomicPattern{}, false
	}
	return it.Rule.Pattern[it.Dot], true
}

// CoreEqual reports whether two items share the same rule and dot,
// ignoring lookahead — the equivalence LALR(1) merging groups states by.
func (it *Item) CoreEqual(o *Item) bool {
	return it.RuleIndex == o.RuleIndex && it.Dot == o.Dot
}

func (it *Item) coreKey() [2]int {
	return [2]int{it.RuleIndex, it.Dot}
}

func (it *Item) copyAdvanced() *Item {
	return &Item{
		Rule:      it.Rule,
		RuleIndex: it.RuleIndex,
		Dot:       it.Dot + 1,
		Lookahead: ordered.NewSet[grammar.Token](),
	}
}

func (it *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ->", it.Rule.LHS)
	for i, ap := range it.Rule.Pattern {
		if i == it.Dot {
			b.WriteString(" .")
		}
		fmt.Fprintf(&b, " %s", ap)
	}
	if it.Dot == len(it.Rule.Pattern) {
		b.WriteString(" .")
	}
	la := make([]string, 0, it.Lookahead.Len())
	for _, t := range it.Lookahead.Items() {
		la = append(la, t.String())
	}
	fmt.Fprintf(&b, ", %s", strings.Join(la, "/"))
	return b.String()
}
