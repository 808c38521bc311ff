package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type avlNode[K infra.OrderedKey] struct {
	left   *avlNode[K]
	right  *avlNode[K]
	key    K
	height int
}

func (node *avlNode[K]) Key() K {
	return node.key
}

func (node *avlNode[K]) Left() Node[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[K]) Right() Node[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// Height of a missing child is 0.
func (node *avlNode[K]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K]) updateHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

// Positive is left heavy.
func (node *avlNode[K]) balanceFactor() int {
	return node.left.Height() - node.right.Height()
}

type avlTree[K infra.OrderedKey] struct {
	root      *avlNode[K]
	count     int64
	cmp       infra.OrderedKeyComparator[K]
	rotations RotationStats
	onRotate  func(kind RotationKind, pivot K)
}

var _ AVLTree[int] = (*avlTree[int])(nil)

func NewAVLTree[K infra.OrderedKey](opts ...TreeOpt[K]) AVLTree[K] {
	o := applyTreeOpts[K](opts)
	return &avlTree[K]{
		cmp:      o.comparator(),
		onRotate: o.onRotate,
	}
}

func (tree *avlTree[K]) Len() int64 {
	return tree.count
}

func (tree *avlTree[K]) IsEmpty() bool {
	return tree.root == nil
}

func (tree *avlTree[K]) Root() Node[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *avlTree[K]) Comparator() infra.OrderedKeyComparator[K] {
	return tree.cmp
}

func (tree *avlTree[K]) Rotations() RotationStats {
	return tree.rotations
}

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yr
		  / \                   / \
		Yl   Yr                L   Yl
*/
func (tree *avlTree[K]) leftRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] left rotate node x is nil or x.right is nil")
	}

	y := x.right
	x.right, y.left = y.left, x
	// X is the child now, so it goes first.
	x.updateHeight()
	y.updateHeight()
	return y
}

/*
			 |                         |
			 X                         Y
			/ \     rightRotate(X)    / \
	       Y   R    ============>    Yl  X
		  / \                           / \
		Yl   Yr                       Yr   R
*/
func (tree *avlTree[K]) rightRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] right rotate node x is nil or x.left is nil")
	}

	y := x.left
	x.left, y.right = y.right, x
	x.updateHeight()
	y.updateHeight()
	return y
}

func (tree *avlTree[K]) Insert(key K) bool {
	root, inserted := tree.insert(tree.root, key)
	tree.root = root
	if inserted {
		tree.count++
	}
	return inserted
}

// insert returns the new root of the subtree. Heights above an unchanged
// subtree are left alone, so duplicates never trigger a rebalance.
func (tree *avlTree[K]) insert(x *avlNode[K], key K) (*avlNode[K], bool) {
	if x == nil {
		return &avlNode[K]{key: key, height: 1}, true
	}

	var inserted bool
	res := tree.cmp(key, x.key)
	if res == 0 {
		return x, false
	} else if res < 0 {
		x.left, inserted = tree.insert(x.left, key)
	} else {
		x.right, inserted = tree.insert(x.right, key)
	}
	if !inserted {
		return x, false
	}

	x.updateHeight()
	return tree.rebalance(x, key), true
}

// rebalance classifies the imbalance at x by comparing the inserted key
// with the heavy child's key.
// b1: LL, single right rotation.
// b2: RR, single left rotation.
// b3: LR, left rotation on the left child then right rotation.
// b4: RL, right rotation on the right child then left rotation.
func (tree *avlTree[K]) rebalance(x *avlNode[K], key K) *avlNode[K] {
	bf := x.balanceFactor()
	if bf >= -1 && bf <= 1 {
		return x
	}

	var (
		kind RotationKind
		y    *avlNode[K]
	)
	switch {
	case /* b1 */ bf > 1 && tree.cmp(key, x.left.key) < 0:
		kind, y = LeftLeft, tree.rightRotate(x)
		tree.rotations.LeftLeft++
	case /* b2 */ bf < -1 && tree.cmp(key, x.right.key) > 0:
		kind, y = RightRight, tree.leftRotate(x)
		tree.rotations.RightRight++
	case /* b3 */ bf > 1:
		x.left = tree.leftRotate(x.left)
		kind, y = LeftRight, tree.rightRotate(x)
		tree.rotations.LeftRight++
	default: /* b4 */
		x.right = tree.rightRotate(x.right)
		kind, y = RightLeft, tree.leftRotate(x)
		tree.rotations.RightLeft++
	}

	if tree.onRotate != nil {
		tree.onRotate(kind, y.key)
	}
	return y
}

func (tree *avlTree[K]) Contains(key K) bool {
	return searchNode[K](tree.Root(), key, tree.cmp) != nil
}

func (tree *avlTree[K]) Min() (K, bool) {
	if tree.root == nil {
		var k K
		return k, false
	}
	return minimumNode[K](tree.root).Key(), true
}

func (tree *avlTree[K]) Max() (K, bool) {
	if tree.root == nil {
		var k K
		return k, false
	}
	return maximumNode[K](tree.root).Key(), true
}

// Height is the cached root height in levels.
func (tree *avlTree[K]) Height() int {
	return tree.root.Height()
}

func (tree *avlTree[K]) IsBalanced() bool {
	return BalanceViolationValidate[K](tree) == nil
}

func (tree *avlTree[K]) InOrder() []K {
	return collectKeys[K](tree.Root(), tree.count, Inorder)
}

func (tree *avlTree[K]) PreOrder() []K {
	return collectKeys[K](tree.Root(), tree.count, Preorder)
}

func (tree *avlTree[K]) PostOrder() []K {
	return collectKeys[K](tree.Root(), tree.count, Postorder)
}

func (tree *avlTree[K]) Foreach(order Traversal, action func(idx int64, key K) bool) {
	if action == nil {
		return
	}
	foreachNode[K](tree.Root(), order, func(idx int64, node Node[K]) bool {
		return action(idx, node.Key())
	})
}

func (tree *avlTree[K]) IsValid() bool {
	return OrderingViolationValidate[K](tree) == nil
}

// Release keeps the rotation counters.
func (tree *avlTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*avlNode[K], 0, aux.height<<1)
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

func (tree *avlTree[K]) String() string {
	return renderTree[K](tree.Root())
}
