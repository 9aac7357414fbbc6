package grammar

import "github.com/hallward/lrpike/internal/ordered"

// FirstSet is FIRST(A): the terminals that can begin a derivation from A,
// plus whether A can derive the empty string.
type FirstSet struct {
	Tokens   *ordered.Set[Token]
	Nullable bool
}

func newFirstSet() *FirstSet {
	return &FirstSet{Tokens: ordered.NewSet[Token]()}
}

// FirstTable maps each symbol of the grammar (every symbol in
// Grammar.Symbols, plus every rule LHS) to its FirstSet.
type FirstTable struct {
	entries *ordered.Map[Symbol, *FirstSet]
}

// Get returns the FirstSet for sym, if the table has an entry for it.
func (t *FirstTable) Get(sym Symbol) (*FirstSet, bool) {
	return t.entries.Get(sym)
}

// Symbols returns the symbols with a computed FirstSet, in first-seen
// order.
func (t *FirstTable) Symbols() []Symbol {
	return t.entries.Keys()
}

func (t *FirstTable) getOrCreate(sym Symbol) *FirstSet {
	if fs, ok := t.entries.Get(sym); ok {
		return fs
	}
	fs := newFirstSet()
	t.entries.Set(sym, fs)
	return fs
}

// ComputeFirstTable builds the FIRST table for g by iterating rules to a
// fixpoint, walking each rule's full pattern: a nullable symbol lets the
// walk continue to the next element, so FIRST propagates through nullable
// prefixes of any length, and a rule whose whole pattern is nullable marks
// its LHS nullable.
func ComputeFirstTable(g *Grammar) *FirstTable {
	table := &FirstTable{entries: ordered.NewMap[Symbol, *FirstSet]()}

	for _, sym := range g.Symbols.Items() {
		table.getOrCreate(sym)
	}

	changed := true
	for changed {
		changed = false
		for _, rule := range g.Rules {
			fs := table.getOrCreate(rule.LHS)

			if rule.IsEmptyPattern() {
				if !fs.Nullable {
					fs.Nullable = true
					changed = true
				}
				continue
			}

			allNullable := true
			for _, ap := range rule.Pattern {
				if ap.Kind == AtomicToken {
					if fs.Tokens.Add(ap.Tok) {
						changed = true
					}
					allNullable = false
					break
				}

				// ap is a symbol.
				symFirst := table.getOrCreate(ap.Sym)
				if fs.Tokens.AddAll(symFirst.Tokens) {
					changed = true
				}
				if !symFirst.Nullable {
					allNullable = false
					break
				}
			}

			if allNullable && !fs.Nullable {
				fs.Nullable = true
				changed = true
			}
		}
	}

	return table
}

// FirstOfSequence computes FIRST(seq) for an arbitrary slice of atomic
// patterns (e.g. the suffix of a rule's pattern after some position):
// concatenation over FIRST of its elements, stopping at the first
// non-nullable element. An empty sequence is vacuously nullable.
func FirstOfSequence(seq []AtomicPattern, first *FirstTable) *FirstSet {
	result := newFirstSet()
	allNullable := true
	for _, ap := range seq {
		if ap.Kind == AtomicToken {
			result.Tokens.Add(ap.Tok)
			allNullable = false
			break
		}
		symFirst, ok := first.Get(ap.Sym)
		if ok {
			result.Tokens.AddAll(symFirst.Tokens)
		}
		if ok && symFirst.Nullable {
			continue
		}
		allNullable = false
		break
	}
	result.Nullable = allNullable
	return result
}

// FollowTable maps each symbol to its FOLLOW set.
type FollowTable struct {
	entries *ordered.Map[Symbol, *ordered.Set[Token]]
}

// Get returns the FOLLOW set for sym.
func (t *FollowTable) Get(sym Symbol) (*ordered.Set[Token], bool) {
	return t.entries.Get(sym)
}

func (t *FollowTable) getOrCreate(sym Symbol) *ordered.Set[Token] {
	if s, ok := t.entries.Get(sym); ok {
		return s
	}
	s := ordered.NewSet[Token]()
	t.entries.Set(sym, s)
	return s
}

// ComputeFollowTable builds the FOLLOW table for g given its FirstTable:
// seed FOLLOW(start)={Eof}, then iterate to a fixpoint adding,
// for every symbol Xi occurring in a rule's pattern, FIRST of the
// remaining suffix (minus epsilon) and, when that suffix is empty or
// entirely nullable, FOLLOW of the rule's own LHS.
func ComputeFollowTable(g *Grammar, first *FirstTable) *FollowTable {
	table := &FollowTable{entries: ordered.NewMap[Symbol, *ordered.Set[Token]]()}
	table.getOrCreate(g.StartSymbol).Add(EOFToken())

	changed := true
	for changed {
		changed = false
		for _, rule := range g.Rules {
			for i, ap := range rule.Pattern {
				if ap.Kind != AtomicSymbol {
					continue
				}
				suffix := rule.Pattern[i+1:]
				suffixFirst := FirstOfSequence(suffix, first)

				followXi := table.getOrCreate(ap.Sym)
				if followXi.AddAll(suffixFirst.Tokens) {
					changed = true
				}
				if suffixFirst.Nullable {
					followA := table.getOrCreate(rule.LHS)
					if followXi.AddAll(followA) {
						changed = true
					}
				}
			}
		}
	}

	return table
}
