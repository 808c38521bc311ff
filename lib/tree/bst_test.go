package tree

import (
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilNode(t *testing.T) {
	var nilNode Node[int] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *bstNode[int] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)

	// Left and Right never leak a typed nil.
	leaf := &bstNode[int]{key: 1}
	require.True(t, leaf.Left() == nil)
	require.True(t, leaf.Right() == nil)
	require.True(t, NewBSTree[int]().Root() == nil)
}

func TestBSTree_Empty(t *testing.T) {
	tree := NewBSTree[int]()
	require.True(t, tree.IsEmpty())
	require.Equal(t, int64(0), tree.Len())
	require.Equal(t, -1, tree.Height())
	_, ok := tree.Min()
	require.False(t, ok)
	_, ok = tree.Max()
	require.False(t, ok)
	require.Empty(t, tree.InOrder())
	require.Empty(t, tree.PreOrder())
	require.Empty(t, tree.PostOrder())
	require.False(t, tree.Contains(1))
	require.False(t, tree.Remove(1))
	require.True(t, tree.IsValid())
	require.Equal(t, "Tree is empty", tree.String())
}

func TestBSTree_UsageScenario(t *testing.T) {
	tree := NewBSTree[int]()
	for _, k := range []int{50, 30, 70, 20, 40, 60, 80, 10, 25, 35, 45} {
		require.True(t, tree.Insert(k))
	}
	require.Equal(t, int64(11), tree.Len())
	require.Equal(t, 3, tree.Height())

	require.True(t, tree.Contains(40))
	require.False(t, tree.Contains(90))

	minK, ok := tree.Min()
	require.True(t, ok)
	require.Equal(t, 10, minK)
	maxK, ok := tree.Max()
	require.True(t, ok)
	require.Equal(t, 80, maxK)

	require.Equal(t, []int{10, 20, 25, 30, 35, 40, 45, 50, 60, 70, 80}, tree.InOrder())
	require.Equal(t, []int{50, 30, 20, 10, 25, 40, 35, 45, 70, 60, 80}, tree.PreOrder())
	require.Equal(t, []int{10, 25, 20, 35, 45, 40, 30, 60, 80, 70, 50}, tree.PostOrder())

	// Two children, 35 is the successor and takes the node over.
	require.True(t, tree.Remove(30))
	require.False(t, tree.Contains(30))
	require.Equal(t, int64(10), tree.Len())
	require.Equal(t, []int{10, 20, 25, 35, 40, 45, 50, 60, 70, 80}, tree.InOrder())
	require.Equal(t, []int{50, 35, 20, 10, 25, 40, 45, 70, 60, 80}, tree.PreOrder())
	require.True(t, tree.IsValid())
	require.NoError(t, Validate[int](tree))
}

func TestBSTree_RemoveCases(t *testing.T) {
	testcases := []struct {
		name      string
		keys      []int
		remove    int
		preorder  []int
		removed   bool
		rootAfter int
	}{
		{
			name:      "leaf",
			keys:      []int{10, 5, 15},
			remove:    5,
			preorder:  []int{10, 15},
			removed:   true,
			rootAfter: 10,
		},
		{
			name:      "single left child",
			keys:      []int{10, 5, 3},
			remove:    5,
			preorder:  []int{10, 3},
			removed:   true,
			rootAfter: 10,
		},
		{
			name:      "single right child",
			keys:      []int{10, 5, 7},
			remove:    5,
			preorder:  []int{10, 7},
			removed:   true,
			rootAfter: 10,
		},
		{
			name:      "two children at root",
			keys:      []int{10, 5, 15},
			remove:    10,
			preorder:  []int{15, 5},
			removed:   true,
			rootAfter: 15,
		},
		{
			name:      "two children, successor has right child",
			keys:      []int{10, 5, 20, 15, 17, 25},
			remove:    10,
			preorder:  []int{15, 5, 20, 17, 25},
			removed:   true,
			rootAfter: 15,
		},
		{
			name:      "root with single child",
			keys:      []int{10, 20, 30},
			remove:    10,
			preorder:  []int{20, 30},
			removed:   true,
			rootAfter: 20,
		},
		{
			name:      "absent",
			keys:      []int{10, 5, 15},
			remove:    7,
			preorder:  []int{10, 5, 15},
			removed:   false,
			rootAfter: 10,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewBSTree[int]()
			for _, k := range tc.keys {
				tree.Insert(k)
			}
			size := tree.Len()
			require.Equal(tt, tc.removed, tree.Remove(tc.remove))
			require.Equal(tt, tc.preorder, tree.PreOrder())
			require.Equal(tt, tc.rootAfter, tree.Root().Key())
			if tc.removed {
				require.Equal(tt, size-1, tree.Len())
				require.False(tt, tree.Contains(tc.remove))
			} else {
				require.Equal(tt, size, tree.Len())
			}
			require.NoError(tt, Validate[int](tree))
		})
	}
}

func TestBSTree_RemoveLastNode(t *testing.T) {
	tree := NewBSTree[string]()
	require.True(t, tree.Insert("a"))
	require.Equal(t, 0, tree.Height())
	require.True(t, tree.Remove("a"))
	require.True(t, tree.IsEmpty())
	require.Equal(t, int64(0), tree.Len())
	require.Equal(t, -1, tree.Height())
}

func TestBSTree_DuplicateInsert(t *testing.T) {
	tree := NewBSTree[int]()
	for _, k := range []int{5, 3, 8} {
		tree.Insert(k)
	}
	before := tree.PreOrder()
	require.False(t, tree.Insert(3))
	require.False(t, tree.Insert(5))
	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, before, tree.PreOrder())
}

func TestBSTree_SequentialChain(t *testing.T) {
	tree := NewBSTree[int]()
	for i := 1; i <= 7; i++ {
		tree.Insert(i)
	}
	require.Equal(t, 6, tree.Height())

	// Iterative helpers keep a long chain off the goroutine stack.
	tree.Release()
	require.True(t, tree.IsEmpty())
	require.Equal(t, int64(0), tree.Len())
	for i := 0; i < 10_000; i++ {
		tree.Insert(i)
	}
	require.Equal(t, 9_999, tree.Height())
	require.True(t, tree.IsValid())
	minK, _ := tree.Min()
	maxK, _ := tree.Max()
	require.Equal(t, 0, minK)
	require.Equal(t, 9_999, maxK)
	require.Len(t, tree.PostOrder(), 10_000)
	for i := 0; i < 10_000; i += 2 {
		require.True(t, tree.Remove(i))
	}
	require.Equal(t, int64(5_000), tree.Len())
	require.NoError(t, Validate[int](tree))
}

func TestBSTree_Desc(t *testing.T) {
	tree := NewBSTree[int](WithTreeDesc[int]())
	for _, k := range []int{5, 1, 9, 3, 7} {
		tree.Insert(k)
	}
	require.Equal(t, []int{9, 7, 5, 3, 1}, tree.InOrder())
	minK, _ := tree.Min()
	require.Equal(t, 9, minK)
	require.True(t, tree.Remove(5))
	require.Equal(t, []int{9, 7, 3, 1}, tree.InOrder())
	require.True(t, tree.IsValid())
}

func TestBSTree_Foreach(t *testing.T) {
	tree := NewBSTree[int]()
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(k)
	}

	visited := make([]int, 0, 3)
	tree.Foreach(Inorder, func(idx int64, key int) bool {
		require.Equal(t, int64(len(visited)), idx)
		visited = append(visited, key)
		return idx < 2
	})
	require.Equal(t, []int{1, 2, 3}, visited)

	visited = visited[:0]
	tree.Foreach(Postorder, func(idx int64, key int) bool {
		visited = append(visited, key)
		return true
	})
	require.Equal(t, []int{1, 3, 2, 5, 7, 6, 4}, visited)

	require.NotPanics(t, func() {
		tree.Foreach(Preorder, nil)
	})
	require.Panics(t, func() {
		tree.Foreach(Traversal(9), func(int64, int) bool { return true })
	})
}

func TestBSTree_String(t *testing.T) {
	tree := NewBSTree[int]()
	for _, k := range []int{50, 30, 70, 20, 40, 80} {
		tree.Insert(k)
	}
	expected := "└── 50\n" +
		"    ├── 30\n" +
		"    │   ├── 20\n" +
		"    │   └── 40\n" +
		"    └── 70\n" +
		"        └── 80\n"
	require.Equal(t, expected, tree.String())
}

func TestBSTree_RandomInsertRemove(t *testing.T) {
	tree := NewBSTree[uint64]()
	present := make(map[uint64]struct{}, 2048)
	for i := 0; i < 5000; i++ {
		k := randv2.Uint64N(2048)
		if randv2.IntN(3) == 0 {
			_, ok := present[k]
			require.Equal(t, ok, tree.Remove(k))
			delete(present, k)
		} else {
			_, ok := present[k]
			require.Equal(t, !ok, tree.Insert(k))
			present[k] = struct{}{}
		}
	}
	require.Equal(t, int64(len(present)), tree.Len())

	expected := make([]uint64, 0, len(present))
	for k := range present {
		expected = append(expected, k)
	}
	slices.Sort(expected)
	require.Equal(t, expected, tree.InOrder())
	require.NoError(t, Validate[uint64](tree))
}

func BenchmarkBSTree_RandomInsert(b *testing.B) {
	tree := NewBSTree[uint64]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(randv2.Uint64())
	}
	b.ReportAllocs()
}
