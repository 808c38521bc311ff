package tree

import (
	"fmt"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// renderTree draws the tree sideways with box-drawing prefixes, root first,
// the left child above the right one.
//
//	└── 50
//	    ├── 30
//	    └── 70
func renderTree[K infra.OrderedKey](root Node[K]) string {
	if root == nil {
		return "Tree is empty"
	}

	type frame struct {
		node   Node[K]
		prefix string
		isLast bool
	}

	var sb strings.Builder
	stack := []frame{{node: root, isLast: true}}
	children := make([]Node[K], 0, 2)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sb.WriteString(f.prefix)
		indent := indentMid
		if f.isLast {
			sb.WriteString(branchLast)
			indent = indentLast
		} else {
			sb.WriteString(branchMid)
		}
		sb.WriteString(fmt.Sprint(f.node.Key()))
		sb.WriteByte('\n')

		children = children[:0]
		if l := f.node.Left(); l != nil {
			children = append(children, l)
		}
		if r := f.node.Right(); r != nil {
			children = append(children, r)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   children[i],
				prefix: f.prefix + indent,
				isLast: i == len(children)-1,
			})
		}
	}
	return sb.String()
}
