package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type bstNode[K infra.OrderedKey] struct {
	left  *bstNode[K]
	right *bstNode[K]
	key   K
}

func (node *bstNode[K]) Key() K {
	return node.key
}

func (node *bstNode[K]) Left() Node[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[K]) Right() Node[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

type bsTree[K infra.OrderedKey] struct {
	root  *bstNode[K]
	count int64
	cmp   infra.OrderedKeyComparator[K]
}

var _ BSTree[int] = (*bsTree[int])(nil)

func NewBSTree[K infra.OrderedKey](opts ...TreeOpt[K]) BSTree[K] {
	o := applyTreeOpts[K](opts)
	return &bsTree[K]{
		cmp: o.comparator(),
	}
}

func (tree *bsTree[K]) Len() int64 {
	return tree.count
}

func (tree *bsTree[K]) IsEmpty() bool {
	return tree.root == nil
}

func (tree *bsTree[K]) Root() Node[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *bsTree[K]) Comparator() infra.OrderedKeyComparator[K] {
	return tree.cmp
}

// lookup returns the slot that holds the key, or the empty slot where the
// key would be attached.
func (tree *bsTree[K]) lookup(key K) **bstNode[K] {
	slot := &tree.root
	for *slot != nil {
		res := tree.cmp(key, (*slot).key)
		if res == 0 {
			break
		} else if res < 0 {
			slot = &(*slot).left
		} else {
			slot = &(*slot).right
		}
	}
	return slot
}

func (tree *bsTree[K]) Insert(key K) bool {
	slot := tree.lookup(key)
	if *slot != nil {
		return false
	}
	*slot = &bstNode[K]{key: key}
	tree.count++
	return true
}

func (tree *bsTree[K]) Contains(key K) bool {
	return *tree.lookup(key) != nil
}

// Remove detaches the node holding key.
// r1: Leaf, the slot is cleared.
// r2: Single child, the child takes over the slot.
// r3: Two children, the in-order successor's key is copied into the node and
// the successor (which has no left child) is removed by r1 or r2.
func (tree *bsTree[K]) Remove(key K) bool {
	slot := tree.lookup(key)
	z := *slot
	if z == nil {
		return false
	}

	if /* r3 */ z.left != nil && z.right != nil {
		succSlot := &z.right
		for (*succSlot).left != nil {
			succSlot = &(*succSlot).left
		}
		z.key = (*succSlot).key
		slot, z = succSlot, *succSlot
	}

	if /* r1, r2 */ z.left != nil {
		*slot = z.left
	} else {
		*slot = z.right
	}
	z.left, z.right = nil, nil
	tree.count--
	return true
}

func (tree *bsTree[K]) Min() (K, bool) {
	if tree.root == nil {
		var k K
		return k, false
	}
	return minimumNode[K](tree.root).Key(), true
}

func (tree *bsTree[K]) Max() (K, bool) {
	if tree.root == nil {
		var k K
		return k, false
	}
	return maximumNode[K](tree.root).Key(), true
}

// Height counts edges on the longest root to leaf path.
func (tree *bsTree[K]) Height() int {
	return levelCount[K](tree.Root()) - 1
}

func (tree *bsTree[K]) InOrder() []K {
	return collectKeys[K](tree.Root(), tree.count, Inorder)
}

func (tree *bsTree[K]) PreOrder() []K {
	return collectKeys[K](tree.Root(), tree.count, Preorder)
}

func (tree *bsTree[K]) PostOrder() []K {
	return collectKeys[K](tree.Root(), tree.count, Postorder)
}

func (tree *bsTree[K]) Foreach(order Traversal, action func(idx int64, key K) bool) {
	if action == nil {
		return
	}
	foreachNode[K](tree.Root(), order, func(idx int64, node Node[K]) bool {
		return action(idx, node.Key())
	})
}

func (tree *bsTree[K]) IsValid() bool {
	return OrderingViolationValidate[K](tree) == nil
}

func (tree *bsTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*bstNode[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right = nil, nil
		tree.count--
	}
}

func (tree *bsTree[K]) String() string {
	return renderTree[K](tree.Root())
}
