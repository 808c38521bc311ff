package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/xlog"
)

var (
	demoBSTKeys = []int{50, 30, 70, 20, 40, 60, 80, 10, 25, 35, 45}
	demoAVLKeys = []int{10, 20, 30, 40, 50, 25}
)

func (c *cli) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the baseline BST and the AVL tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogger(cmd, func(logger xlog.XLogger) error {
				out := cmd.OutOrStdout()
				if err := c.demoBST(out); err != nil {
					return err
				}
				if err := c.demoAVL(out, logger); err != nil {
					return err
				}
				c.demoSequential(out)
				return nil
			})
		},
	}
}

func joinKeys[K infra.OrderedKey](keys []K) string {
	return strings.Join(lo.Map(keys, func(k K, _ int) string {
		return fmt.Sprint(k)
	}), " ")
}

func (c *cli) demoBST(out io.Writer) error {
	s := c.styles
	fmt.Fprintln(out, s.title.Render("== Baseline binary search tree =="))

	bst := tree.NewBSTree[int]()
	for _, k := range demoBSTKeys {
		bst.Insert(k)
	}
	fmt.Fprintf(out, "%s %s\n", s.label.Render("insert:"), joinKeys(demoBSTKeys))
	fmt.Fprint(out, bst.String())

	fmt.Fprintf(out, "%s 40 found=%s, 90 found=%s\n", s.label.Render("search:"),
		s.boolean(bst.Contains(40)), s.boolean(bst.Contains(90)))
	minK, _ := bst.Min()
	maxK, _ := bst.Max()
	fmt.Fprintf(out, "%s %d %s %d\n", s.label.Render("min:"), minK, s.label.Render("max:"), maxK)
	fmt.Fprintf(out, "%s %s\n", s.label.Render("inorder:"), joinKeys(bst.InOrder()))
	fmt.Fprintf(out, "%s %s\n", s.label.Render("preorder:"), joinKeys(bst.PreOrder()))
	fmt.Fprintf(out, "%s %s\n", s.label.Render("postorder:"), joinKeys(bst.PostOrder()))
	fmt.Fprintf(out, "%s %d %s %d\n", s.label.Render("height:"), bst.Height(), s.label.Render("size:"), bst.Len())

	bst.Remove(30)
	fmt.Fprintf(out, "%s 30\n", s.label.Render("delete:"))
	fmt.Fprint(out, bst.String())
	fmt.Fprintf(out, "%s %s\n", s.label.Render("inorder:"), joinKeys(bst.InOrder()))
	fmt.Fprintf(out, "%s %s\n\n", s.label.Render("valid:"), s.boolean(bst.IsValid()))
	return tree.Validate[int](bst)
}

func (c *cli) demoAVL(out io.Writer, logger xlog.XLogger) error {
	s := c.styles
	fmt.Fprintln(out, s.title.Render("== AVL tree =="))

	avl := tree.NewAVLTree[int](tree.WithAVLRotateHook[int](func(kind tree.RotationKind, pivot int) {
		logger.Debug("avl rotation", zap.Stringer("case", kind), zap.Int("pivot", pivot))
		fmt.Fprintf(out, "  %s\n", s.dim.Render(fmt.Sprintf("%s rotation, new subtree root %d", kind, pivot)))
	}))
	for _, k := range demoAVLKeys {
		avl.Insert(k)
		fmt.Fprintf(out, "%s %d %s %d %s %s\n",
			s.label.Render("insert"), k,
			s.label.Render("height:"), avl.Height(),
			s.label.Render("balanced:"), s.boolean(avl.IsBalanced()),
		)
	}
	fmt.Fprint(out, avl.String())
	fmt.Fprintf(out, "%s %s\n", s.label.Render("inorder:"), joinKeys(avl.InOrder()))
	fmt.Fprintf(out, "%s %s\n", s.label.Render("preorder:"), joinKeys(avl.PreOrder()))
	rot := avl.Rotations()
	fmt.Fprintf(out, "%s LL=%d RR=%d LR=%d RL=%d\n\n", s.label.Render("rotations:"),
		rot.LeftLeft, rot.RightRight, rot.LeftRight, rot.RightLeft)
	return tree.Validate[int](avl)
}

func (c *cli) demoSequential(out io.Writer) {
	s := c.styles
	fmt.Fprintln(out, s.title.Render("== Sequential keys 1..7 =="))
	bst, avl := tree.NewBSTree[int](), tree.NewAVLTree[int]()
	for k := range 7 {
		bst.Insert(k + 1)
		avl.Insert(k + 1)
	}
	fmt.Fprintf(out, "%s height %d %s\n", s.label.Render("bst:"), bst.Height(), s.dim.Render("(edges, a chain)"))
	fmt.Fprintf(out, "%s height %d %s\n", s.label.Render("avl:"), avl.Height(), s.dim.Render("(levels)"))
	fmt.Fprint(out, avl.String())
}
