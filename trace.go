package lrpike

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hallward/lrpike/lex"
	"github.com/hallward/lrpike/tables"
)

// Step is a snapshot taken just before one dispatch of the shift/reduce
// driver: the state and tree stacks as they stood, the remaining input
// (including the token the action was chosen for), and the action taken.
type Step struct {
	StateStack      []int
	TreeStack       []*Tree
	RemainingTokens []lex.Lexeme
	Action          tables.Action
}

// Trace is the ordered sequence of Steps recorded by a traced parse.
type Trace struct {
	Steps []Step
}

// Dump writes a tabular rendering of the trace to w: one row per step,
// with the state stack, symbol stack, remaining input, and action taken.
func (tr *Trace) Dump(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "step\tstate stack\tsymbol stack\tremaining input\taction")
	for i, step := range tr.Steps {
		states := make([]string, len(step.StateStack))
		for j, s := range step.StateStack {
			states[j] = strconv.Itoa(s)
		}
		symbols := make([]string, len(step.TreeStack))
		for j, t := range step.TreeStack {
			if t.Kind == TerminalNode {
				symbols[j] = t.Token.String()
			} else {
				symbols[j] = string(t.Symbol)
			}
		}
		remaining := make([]string, len(step.RemainingTokens))
		for j, lx := range step.RemainingTokens {
			remaining[j] = lx.Token.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i, strings.Join(states, " "), strings.Join(symbols, " "), strings.Join(remaining, " "), step.Action)
	}
	tw.Flush()
}
