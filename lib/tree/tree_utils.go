package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

// Node methods return an untyped nil for a missing child, so plain nil
// checks are enough here.

func searchNode[K infra.OrderedKey](root Node[K], key K, cmp infra.OrderedKeyComparator[K]) Node[K] {
	for aux := root; aux != nil; {
		res := cmp(key, aux.Key())
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.Left()
		} else {
			aux = aux.Right()
		}
	}
	return nil
}

func minimumNode[K infra.OrderedKey](root Node[K]) Node[K] {
	aux := root
	for ; aux != nil && aux.Left() != nil; aux = aux.Left() {
	}
	return aux
}

func maximumNode[K infra.OrderedKey](root Node[K]) Node[K] {
	aux := root
	for ; aux != nil && aux.Right() != nil; aux = aux.Right() {
	}
	return aux
}

func foreachNode[K infra.OrderedKey](root Node[K], order Traversal, action func(idx int64, node Node[K]) bool) {
	if root == nil || action == nil {
		return
	}

	stack := make([]Node[K], 0, 32)
	defer func() {
		clear(stack)
	}()
	idx := int64(0)

	switch order {
	case Inorder:
		for aux := root; aux != nil || len(stack) > 0; {
			for ; aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
			aux = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !action(idx, aux) {
				return
			}
			idx++
			aux = aux.Right()
		}
	case Preorder:
		stack = append(stack, root)
		for len(stack) > 0 {
			aux := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !action(idx, aux) {
				return
			}
			idx++
			// Right first, so the left subtree pops first.
			if r := aux.Right(); r != nil {
				stack = append(stack, r)
			}
			if l := aux.Left(); l != nil {
				stack = append(stack, l)
			}
		}
	case Postorder:
		var last Node[K]
		for aux := root; aux != nil || len(stack) > 0; {
			if aux != nil {
				stack = append(stack, aux)
				aux = aux.Left()
				continue
			}
			top := stack[len(stack)-1]
			if r := top.Right(); r != nil && r != last {
				aux = r
				continue
			}
			if !action(idx, top) {
				return
			}
			idx++
			last = top
			stack = stack[:len(stack)-1]
		}
	default:
		panic( /* debug assertion */ fmt.Sprintf("[tree] unknown traversal order %d", order))
	}
}

func collectKeys[K infra.OrderedKey](root Node[K], size int64, order Traversal) []K {
	keys := make([]K, 0, size)
	foreachNode[K](root, order, func(_ int64, node Node[K]) bool {
		keys = append(keys, node.Key())
		return true
	})
	return keys
}

// BFS level by level, the explicit queue keeps degenerate chains off the
// goroutine stack.
func levelCount[K infra.OrderedKey](root Node[K]) int {
	if root == nil {
		return 0
	}
	levels := 0
	queue := []Node[K]{root}
	for len(queue) > 0 {
		levels++
		next := make([]Node[K], 0, len(queue)<<1)
		for _, aux := range queue {
			if l := aux.Left(); l != nil {
				next = append(next, l)
			}
			if r := aux.Right(); r != nil {
				next = append(next, r)
			}
		}
		queue = next
	}
	return levels
}

func countNodes[K infra.OrderedKey](root Node[K]) int64 {
	count := int64(0)
	foreachNode[K](root, Preorder, func(int64, Node[K]) bool {
		count++
		return true
	})
	return count
}

// recomputeHeights ignores cached heights and derives every subtree height
// bottom-up, 1 for a leaf.
func recomputeHeights[K infra.OrderedKey](root Node[K]) map[Node[K]]int {
	heights := make(map[Node[K]]int)
	foreachNode[K](root, Postorder, func(_ int64, node Node[K]) bool {
		heights[node] = 1 + max(heights[node.Left()], heights[node.Right()])
		return true
	})
	return heights
}

// Tree rule validation utilities.

// OrderingViolationValidate threads an open interval (lo, hi) from the root
// down, tightening it at every step. The first key outside its interval is
// reported.
func OrderingViolationValidate[K infra.OrderedKey](tree SearchTree[K]) error {
	if tree == nil || tree.Root() == nil {
		return nil
	}

	type bound struct {
		node         Node[K]
		lo, hi       K
		hasLo, hasHi bool
	}
	cmp := tree.Comparator()
	stack := []bound{{node: tree.Root()}}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := b.node.Key()
		if (b.hasLo && cmp(key, b.lo) <= 0) || (b.hasHi && cmp(key, b.hi) >= 0) {
			return infra.NewErrorStack(fmt.Sprintf("tree ordering violation at key %v", key))
		}
		if l := b.node.Left(); l != nil {
			stack = append(stack, bound{node: l, lo: b.lo, hasLo: b.hasLo, hi: key, hasHi: true})
		}
		if r := b.node.Right(); r != nil {
			stack = append(stack, bound{node: r, lo: key, hasLo: true, hi: b.hi, hasHi: b.hasHi})
		}
	}
	return nil
}

func SizeViolationValidate[K infra.OrderedKey](tree SearchTree[K]) error {
	if tree == nil {
		return nil
	}
	if reachable := countNodes[K](tree.Root()); reachable != tree.Len() {
		return infra.NewErrorStack(fmt.Sprintf("tree size violation, len %d but %d nodes reachable", tree.Len(), reachable))
	}
	return nil
}

// BalanceViolationValidate checks |h(left) - h(right)| <= 1 at every node
// with recomputed heights, so a stale cache cannot hide a violation.
func BalanceViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	if tree == nil || tree.Root() == nil {
		return nil
	}
	heights := recomputeHeights[K](tree.Root())
	var err error
	foreachNode[K](tree.Root(), Inorder, func(_ int64, node Node[K]) bool {
		if bf := heights[node.Left()] - heights[node.Right()]; bf > 1 || bf < -1 {
			err = infra.NewErrorStack(fmt.Sprintf("avl balance violation at key %v, balance factor %d", node.Key(), bf))
			return false
		}
		return true
	})
	return err
}

func HeightCacheViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	if tree == nil || tree.Root() == nil {
		return nil
	}
	heights := recomputeHeights[K](tree.Root())
	var err error
	foreachNode[K](tree.Root(), Inorder, func(_ int64, node Node[K]) bool {
		n, ok := node.(AVLNode[K])
		if !ok {
			err = infra.NewErrorStack(fmt.Sprintf("avl node %v without cached height", node.Key()))
			return false
		}
		if n.Height() != heights[node] {
			err = infra.NewErrorStack(fmt.Sprintf("avl stale height at key %v, cached %d, real %d", node.Key(), n.Height(), heights[node]))
			return false
		}
		return true
	})
	return err
}

// Validate runs every validator that applies to the tree and merges all
// violations into one error. nil means the tree is sound.
func Validate[K infra.OrderedKey](tree SearchTree[K]) error {
	errs := []error{
		OrderingViolationValidate[K](tree),
		SizeViolationValidate[K](tree),
	}
	if avl, ok := tree.(AVLTree[K]); ok {
		errs = append(errs,
			BalanceViolationValidate[K](avl),
			HeightCacheViolationValidate[K](avl),
		)
	}
	return infra.AppendErrorStack(errs...)
}
