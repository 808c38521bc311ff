package tree

import "github.com/benz9527/xtree/lib/infra"

type treeOptions[K infra.OrderedKey] struct {
	cmp      infra.OrderedKeyComparator[K]
	isDesc   bool
	onRotate func(kind RotationKind, pivot K)
}

func (opts *treeOptions[K]) comparator() infra.OrderedKeyComparator[K] {
	cmp := opts.cmp
	if cmp == nil {
		cmp = infra.AscCompare[K]
	}
	if opts.isDesc {
		cmp = cmp.Reverse()
	}
	return cmp
}

type TreeOpt[K infra.OrderedKey] func(*treeOptions[K])

// WithTreeDesc keeps keys in descending order.
func WithTreeDesc[K infra.OrderedKey]() TreeOpt[K] {
	return func(opts *treeOptions[K]) {
		opts.isDesc = true
	}
}

// WithTreeComparator replaces the natural key order. The comparator must
// describe a strict total order.
func WithTreeComparator[K infra.OrderedKey](cmp infra.OrderedKeyComparator[K]) TreeOpt[K] {
	return func(opts *treeOptions[K]) {
		if cmp != nil {
			opts.cmp = cmp
		}
	}
}

// WithAVLRotateHook is called after each rebalance with the key of the new
// subtree root. BSTree ignores it.
func WithAVLRotateHook[K infra.OrderedKey](fn func(kind RotationKind, pivot K)) TreeOpt[K] {
	return func(opts *treeOptions[K]) {
		if fn != nil {
			opts.onRotate = fn
		}
	}
}

func applyTreeOpts[K infra.OrderedKey](opts []TreeOpt[K]) *treeOptions[K] {
	o := &treeOptions[K]{}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}
	return o
}
