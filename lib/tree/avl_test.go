package tree

import (
	"math"
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func avlHeightBound(n int) int {
	return int(math.Ceil(1.44 * math.Log2(float64(n+2))))
}

func TestAVLTree_Empty(t *testing.T) {
	tree := NewAVLTree[int]()
	require.True(t, tree.IsEmpty())
	require.Equal(t, 0, tree.Height())
	require.True(t, tree.IsBalanced())
	require.True(t, tree.IsValid())
	require.Zero(t, tree.Rotations().Total())
	require.Equal(t, "Tree is empty", tree.String())
	require.True(t, tree.Root() == nil)
}

func TestAVLTree_UsageScenario(t *testing.T) {
	type rotation struct {
		kind  RotationKind
		pivot int
	}
	rotations := make([]rotation, 0, 4)
	tree := NewAVLTree[int](WithAVLRotateHook[int](func(kind RotationKind, pivot int) {
		rotations = append(rotations, rotation{kind, pivot})
	}))

	heights := []int{1, 2, 2, 3, 3, 3}
	for i, k := range []int{10, 20, 30, 40, 50, 25} {
		require.True(t, tree.Insert(k))
		require.Equal(t, heights[i], tree.Height(), "after inserting %d", k)
		require.True(t, tree.IsBalanced())
		require.NoError(t, Validate[int](tree))
		if i == 2 {
			require.Equal(t, int64(1), tree.Rotations().RightRight)
		}
	}

	require.Equal(t, []int{10, 20, 25, 30, 40, 50}, tree.InOrder())
	require.Equal(t, []int{30, 20, 10, 25, 40, 50}, tree.PreOrder())
	require.Equal(t, []rotation{
		{RightRight, 20},
		{RightRight, 40},
		{RightLeft, 30},
	}, rotations)
	require.Equal(t, RotationStats{RightRight: 2, RightLeft: 1}, tree.Rotations())
	require.Equal(t, int64(3), tree.Rotations().Total())
}

func TestAVLTree_RotationCases(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		kind     RotationKind
		preorder []int
	}{
		{"LL", []int{30, 20, 10}, LeftLeft, []int{20, 10, 30}},
		{"RR", []int{10, 20, 30}, RightRight, []int{20, 10, 30}},
		{"LR", []int{30, 10, 20}, LeftRight, []int{20, 10, 30}},
		{"RL", []int{10, 30, 20}, RightLeft, []int{20, 10, 30}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			var kinds []RotationKind
			tree := NewAVLTree[int](WithAVLRotateHook[int](func(kind RotationKind, pivot int) {
				require.Equal(tt, 20, pivot)
				kinds = append(kinds, kind)
			}))
			for _, k := range tc.keys {
				tree.Insert(k)
			}
			require.Equal(tt, []RotationKind{tc.kind}, kinds)
			require.Equal(tt, tc.kind.String(), tc.name)
			require.Equal(tt, tc.preorder, tree.PreOrder())
			require.Equal(tt, 2, tree.Height())
			require.Equal(tt, int64(1), tree.Rotations().Total())
			require.NoError(tt, HeightCacheViolationValidate[int](tree))
		})
	}
}

func TestAVLTree_SequentialComparedWithBSTree(t *testing.T) {
	avl, bst := NewAVLTree[int](), NewBSTree[int]()
	for i := 1; i <= 7; i++ {
		avl.Insert(i)
		bst.Insert(i)
	}
	require.Equal(t, 6, bst.Height())
	require.LessOrEqual(t, avl.Height(), 3)
	require.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, avl.PreOrder())
	require.Equal(t, RotationStats{RightRight: 4}, avl.Rotations())
	require.Equal(t, bst.InOrder(), avl.InOrder())
}

func TestAVLTree_DuplicateInsert(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, k := range []int{10, 20, 30} {
		tree.Insert(k)
	}
	stats := tree.Rotations()
	before := tree.PreOrder()
	for _, k := range []int{10, 20, 30} {
		require.False(t, tree.Insert(k))
	}
	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, before, tree.PreOrder())
	require.Equal(t, stats, tree.Rotations())
}

func TestAVLTree_HeightBound(t *testing.T) {
	testcases := []struct {
		name string
		next func(i int) int
	}{
		{"ascending", func(i int) int { return i }},
		{"descending", func(i int) int { return -i }},
		{"zigzag", func(i int) int {
			if i&1 == 0 {
				return i
			}
			return -i
		}},
		{"random", func(int) int { return randv2.Int() }},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTree[int]()
			for i := 0; i < 10_000; i++ {
				tree.Insert(tc.next(i))
				n := int(tree.Len())
				require.LessOrEqual(tt, tree.Height(), avlHeightBound(n))
				if i%1000 == 0 {
					require.True(tt, tree.IsBalanced())
				}
			}
			require.NoError(tt, Validate[int](tree))
			require.True(tt, slices.IsSorted(tree.InOrder()))
		})
	}
}

func TestAVLTree_StringKeysDesc(t *testing.T) {
	tree := NewAVLTree[string](WithTreeDesc[string]())
	for _, k := range []string{"kiwi", "apple", "fig", "banana", "cherry"} {
		tree.Insert(k)
	}
	require.Equal(t, []string{"kiwi", "fig", "cherry", "banana", "apple"}, tree.InOrder())
	minK, _ := tree.Min()
	maxK, _ := tree.Max()
	require.Equal(t, "kiwi", minK)
	require.Equal(t, "apple", maxK)
	require.True(t, tree.Contains("fig"))
	require.False(t, tree.Contains("grape"))
	require.NoError(t, Validate[string](tree))
}

func TestAVLTree_CustomComparator(t *testing.T) {
	// Order by absolute value, so -3 and 3 collide.
	byAbs := func(i, j int) int64 {
		a, b := i, j
		if a < 0 {
			a = -a
		}
		if b < 0 {
			b = -b
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	tree := NewAVLTree[int](WithTreeComparator[int](byAbs))
	require.True(t, tree.Insert(-3))
	require.False(t, tree.Insert(3))
	require.True(t, tree.Insert(1))
	require.True(t, tree.Insert(-2))
	require.Equal(t, []int{1, -2, -3}, tree.InOrder())
	require.True(t, tree.Contains(2))
}

func TestAVLTree_Release(t *testing.T) {
	tree := NewAVLTree[float64]()
	for i := 0; i < 64; i++ {
		tree.Insert(float64(i) / 2)
	}
	stats := tree.Rotations()
	tree.Release()
	require.True(t, tree.IsEmpty())
	require.Equal(t, int64(0), tree.Len())
	require.Equal(t, 0, tree.Height())
	require.Equal(t, stats, tree.Rotations())
	require.True(t, tree.Insert(1.5))
	require.Equal(t, 1, tree.Height())
}

func TestAVLTree_RotateAssertion(t *testing.T) {
	tree := NewAVLTree[int]().(*avlTree[int])
	require.Panics(t, func() {
		tree.leftRotate(&avlNode[int]{key: 1, height: 1})
	})
	require.Panics(t, func() {
		tree.rightRotate(nil)
	})
}

func BenchmarkAVLTree_RandomInsert(b *testing.B) {
	tree := NewAVLTree[uint64]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(randv2.Uint64())
	}
	b.ReportAllocs()
}

func BenchmarkAVLTree_SequentialInsert(b *testing.B) {
	tree := NewAVLTree[int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i)
	}
	b.ReportAllocs()
}
