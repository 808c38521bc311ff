package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/xlog"
)

type buildOpts struct {
	variant string
	keyType string
	keys    []string
	remove  []string
	desc    bool
}

func (c *cli) newBuildCmd() *cobra.Command {
	o := &buildOpts{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a tree from keys and print its shape and traversals",
		Example: `  xtree build --variant bst --keys 5,3,8 --remove 3
  xtree build --variant avl --type string --keys kiwi,apple,fig --desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLogger(cmd, func(logger xlog.XLogger) error {
				out := cmd.OutOrStdout()
				switch o.keyType {
				case "int":
					return runBuild[int64](out, c.styles, logger, o, func(s string) (int64, error) {
						return strconv.ParseInt(s, 10, 64)
					})
				case "float":
					return runBuild[float64](out, c.styles, logger, o, parseFloatKey)
				case "string":
					return runBuild[string](out, c.styles, logger, o, func(s string) (string, error) {
						return s, nil
					})
				default:
				}
				return infra.NewErrorStack(fmt.Sprintf("unknown key type %q, want int, float or string", o.keyType))
			})
		},
	}
	cmd.Flags().StringVar(&o.variant, "variant", "bst", "tree variant: bst or avl")
	cmd.Flags().StringVar(&o.keyType, "type", "int", "key type: int, float or string")
	cmd.Flags().StringSliceVar(&o.keys, "keys", nil, "comma separated keys, inserted in order")
	cmd.Flags().StringSliceVar(&o.remove, "remove", nil, "comma separated keys removed after insertion (bst only)")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "keep keys in descending order")
	_ = cmd.MarkFlagRequired("keys")
	return cmd
}

var errNaNKey = errors.New("NaN has no place in a total order")

func parseFloatKey(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) {
		return 0, errNaNKey
	}
	return f, nil
}

// parseKeys reports every malformed key at once.
func parseKeys[K infra.OrderedKey](raw []string, parse func(string) (K, error)) ([]K, error) {
	var merr error
	keys := lo.FilterMap(raw, func(s string, i int) (K, bool) {
		k, err := parse(strings.TrimSpace(s))
		if err != nil {
			merr = multierr.Append(merr, fmt.Errorf("key #%d %q: %w", i+1, s, err))
			return k, false
		}
		return k, true
	})
	if merr != nil {
		return nil, infra.WrapErrorStack(merr)
	}
	return keys, nil
}

func runBuild[K infra.OrderedKey](
	out io.Writer,
	s *styles,
	logger xlog.XLogger,
	o *buildOpts,
	parse func(string) (K, error),
) error {
	keys, err := parseKeys(o.keys, parse)
	if err != nil {
		return err
	}
	removes, err := parseKeys(o.remove, parse)
	if err != nil {
		return err
	}

	opts := make([]tree.TreeOpt[K], 0, 2)
	if o.desc {
		opts = append(opts, tree.WithTreeDesc[K]())
	}

	var t tree.SearchTree[K]
	switch o.variant {
	case "bst":
		bst := tree.NewBSTree[K](opts...)
		insertAll(logger, bst, keys)
		for _, k := range removes {
			if !bst.Remove(k) {
				logger.Warn("key to remove is absent", zap.Any("key", k))
			}
		}
		t = bst
	case "avl":
		if len(removes) > 0 {
			return infra.NewErrorStack("the avl tree does not support remove")
		}
		opts = append(opts, tree.WithAVLRotateHook[K](func(kind tree.RotationKind, pivot K) {
			logger.Debug("avl rotation", zap.Stringer("case", kind), zap.Any("pivot", pivot))
		}))
		avl := tree.NewAVLTree[K](opts...)
		insertAll(logger, avl, keys)
		t = avl
	default:
		return infra.NewErrorStack(fmt.Sprintf("unknown variant %q, want bst or avl", o.variant))
	}

	report(out, s, t)
	return tree.Validate[K](t)
}

func insertAll[K infra.OrderedKey](logger xlog.XLogger, t tree.SearchTree[K], keys []K) {
	for _, k := range keys {
		if !t.Insert(k) {
			logger.Debug("duplicate key ignored", zap.Any("key", k))
		}
	}
}

func report[K infra.OrderedKey](out io.Writer, s *styles, t tree.SearchTree[K]) {
	fmt.Fprint(out, t.String())
	if !strings.HasSuffix(t.String(), "\n") {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%s %s\n", s.label.Render("inorder:"), joinKeys(t.InOrder()))
	fmt.Fprintf(out, "%s %s\n", s.label.Render("preorder:"), joinKeys(t.PreOrder()))
	fmt.Fprintf(out, "%s %s\n", s.label.Render("postorder:"), joinKeys(t.PostOrder()))
	if minK, ok := t.Min(); ok {
		maxK, _ := t.Max()
		fmt.Fprintf(out, "%s %v %s %v\n", s.label.Render("min:"), minK, s.label.Render("max:"), maxK)
	}
	fmt.Fprintf(out, "%s %d %s %d\n", s.label.Render("height:"), t.Height(), s.label.Render("size:"), t.Len())
	fmt.Fprintf(out, "%s %s\n", s.label.Render("valid:"), s.boolean(t.IsValid()))
	if avl, ok := t.(tree.AVLTree[K]); ok {
		rot := avl.Rotations()
		fmt.Fprintf(out, "%s %s\n", s.label.Render("balanced:"), s.boolean(avl.IsBalanced()))
		fmt.Fprintf(out, "%s LL=%d RR=%d LR=%d RL=%d\n", s.label.Render("rotations:"),
			rot.LeftLeft, rot.RightRight, rot.LeftRight, rot.RightLeft)
	}
}
