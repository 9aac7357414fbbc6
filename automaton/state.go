package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/internal/ordered"
)

// State is one node of the LR automaton: a closed set of items and the
// transitions out of it. State equality ignores ID and Transitions — two
// states are equal iff their item sets match exactly, including
// lookaheads.
type State struct {
	ID          int
	Items       []*Item
	Transitions *ordered.Map[grammar.AtomicPattern, int]
}

func newState(id int, items []*Item) *State {
	return &State{ID: id, Items: items, Transitions: ordered.NewMap[grammar.AtomicPattern, int]()}
}

// itemKey renders one item as a sortable, order-independent key string.
func itemKey(it *Item, withLookahead bool) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(it.RuleIndex))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(it.Dot))
	if withLookahead {
		b.WriteByte(',')
		toks := make([]string, 0, it.Lookahead.Len())
		for _, t := range it.Lookahead.Items() {
			toks = append(toks, string(rune(t.Kind))+":"+t.Name)
		}
		sort.Strings(toks)
		b.WriteString(strings.Join(toks, "|"))
	}
	return b.String()
}

// signature returns an order-independent identity key for the state's
// full item set (core and lookaheads) — two states with equal signatures
// are the same LR(1) state.
func (s *State) signature() string {
	keys := make([]string, len(s.Items))
	for i, it := range s.Items {
		keys[i] = itemKey(it, true)
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}

// core returns an order-independent identity key for the state's item set
// ignoring lookaheads — two states with equal cores are merged into one
// LALR(1) state.
func (s *State) core() string {
	keys := make([]string, len(s.Items))
	for i, it := range s.Items {
		keys[i] = itemKey(it, false)
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}

// findItem returns the item in s.Items with the same (rule, dot) as
// target, if any.
func (s *State) findItem(target *Item) *Item {
	for _, it := range s.Items {
		if it.CoreEqual(target) {
			return it
		}
	}
	return nil
}
