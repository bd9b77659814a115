package htmltree

import (
	"strings"

	"dxh/utils/debug"
)

// Dump returns indented textual representation of the tree for debug reports.
func Dump(nodes ...Node) string {
	tw := debug.NewTreeWriter()
	dumpNodes(tw, 0, nodes)
	return tw.String()
}

func dumpNodes(tw *debug.TreeWriter, depth int, nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			tw.TextBlock(depth, "text", string(v))
		case *Element:
			if len(v.ClassNames) > 0 {
				tw.Line(depth, "<%s class=%q>", v.Tag, strings.Join(v.ClassNames, " "))
			} else {
				tw.Line(depth, "<%s>", v.Tag)
			}
			dumpNodes(tw, depth+1, v.Children)
		}
	}
}
