// Package tree holds the ordered search-tree family: an unbalanced binary
// search tree (BSTree) and its height-balanced variant (AVLTree).
//
// Neither tree locks. Read-only calls may run concurrently with each other,
// never with Insert or Remove on the same instance.
package tree

import "github.com/benz9527/xtree/lib/infra"

type Traversal uint8

const (
	// Inorder visits left subtree, node, right subtree. Keys come out in
	// comparator order.
	Inorder Traversal = iota
	Preorder
	Postorder
)

func (t Traversal) String() string {
	switch t {
	case Inorder:
		return "inorder"
	case Preorder:
		return "preorder"
	case Postorder:
		return "postorder"
	default:
	}
	return "unknown"
}

type RotationKind uint8

const (
	// LeftLeft is fixed by a single right rotation.
	LeftLeft RotationKind = iota
	// RightRight is fixed by a single left rotation.
	RightRight
	// LeftRight rotates the left child to the left, then the node to the right.
	LeftRight
	// RightLeft rotates the right child to the right, then the node to the left.
	RightLeft
)

func (k RotationKind) String() string {
	switch k {
	case LeftLeft:
		return "LL"
	case RightRight:
		return "RR"
	case LeftRight:
		return "LR"
	case RightLeft:
		return "RL"
	default:
	}
	return "unknown"
}

type RotationStats struct {
	LeftLeft   int64
	RightRight int64
	LeftRight  int64
	RightLeft  int64
}

func (s RotationStats) Total() int64 {
	return s.LeftLeft + s.RightRight + s.LeftRight + s.RightLeft
}

type Node[K infra.OrderedKey] interface {
	Key() K
	Left() Node[K]
	Right() Node[K]
}

type AVLNode[K infra.OrderedKey] interface {
	Node[K]
	// Height is the cached subtree height, 1 for a leaf.
	Height() int
}

// SearchTree is the contract shared by both variants.
type SearchTree[K infra.OrderedKey] interface {
	Len() int64
	IsEmpty() bool
	Root() Node[K]
	Comparator() infra.OrderedKeyComparator[K]
	// Insert reports whether a new node was created. Duplicates are no-ops.
	Insert(key K) bool
	Contains(key K) bool
	Min() (K, bool)
	Max() (K, bool)
	Height() int
	InOrder() []K
	PreOrder() []K
	PostOrder() []K
	// Foreach walks the tree in the given order until action returns false.
	Foreach(order Traversal, action func(idx int64, key K) bool)
	// IsValid checks the ordering invariant over the whole tree, O(n).
	IsValid() bool
	Release()
	String() string
}

// BSTree is the unbalanced baseline. Height is counted in edges, so an
// empty tree reports -1 and a single node reports 0.
type BSTree[K infra.OrderedKey] interface {
	SearchTree[K]
	// Remove reports whether a node was removed. Absent keys are no-ops.
	Remove(key K) bool
}

// AVLTree rebalances on every insertion. Height is the cached root height
// counted in levels, so an empty tree reports 0 and a single node reports 1.
// There is no Remove.
type AVLTree[K infra.OrderedKey] interface {
	SearchTree[K]
	IsBalanced() bool
	Rotations() RotationStats
}
