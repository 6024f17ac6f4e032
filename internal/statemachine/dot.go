package statemachine

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDOT writes the graph in Graphviz DOT format. The entry state is
// green and terminals are orange.
func (m *Machine) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph sync {")
	fmt.Fprintln(bw, "\trankdir=LR;")
	for _, id := range m.order {
		if id == m.entry {
			fmt.Fprintf(bw, "\t%q [style=filled, fillcolor=green];\n", id)
			continue
		}
		fmt.Fprintf(bw, "\t%q;\n", id)
	}
	for _, id := range m.terminals {
		fmt.Fprintf(bw, "\t%q [style=filled, fillcolor=orange, shape=doublecircle];\n", id)
	}
	for _, e := range m.edgeList {
		fmt.Fprintf(bw, "\t%q -> %q [label=%q];\n", e.From, e.To, e.Result)
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
