package collide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBTree_NodeFromPool(t *testing.T) {
	tree := NewBBTree(10)
	node := tree.NodeFromPool()
	require.NotNil(t, node)

	count := 1
	for n := tree.pooledNodes; n != nil; n = n.parent {
		count++
	}
	assert.Equal(t, 32, count, "one batch allocated")

	tree.NodeRecycle(node)
	assert.Same(t, node, tree.NodeFromPool())
}

// checkTree verifies that every internal node bounds its children and that
// parent links are consistent.
func checkTree(t *testing.T, node *Node) int {
	t.Helper()
	if node.IsLeaf() {
		return 1
	}
	require.Same(t, node, node.a.parent)
	require.Same(t, node, node.b.parent)
	require.True(t, node.bb.Contains(node.a.bb))
	require.True(t, node.bb.Contains(node.b.bb))
	return checkTree(t, node.a) + checkTree(t, node.b)
}

func TestBBTree_Structure(t *testing.T) {
	tree := NewBBTree(10)
	for i := 0; i < 64; i++ {
		x := float64(i%8) * 12
		y := float64(i/8) * 12
		tree.Insert(EntityID(i), NewBB(x, y, x+10, y+10))
	}
	require.Nil(t, tree.root.parent)
	assert.Equal(t, 64, checkTree(t, tree.root))

	for i := 0; i < 64; i += 2 {
		tree.Remove(EntityID(i))
	}
	require.Nil(t, tree.root.parent)
	assert.Equal(t, 32, checkTree(t, tree.root))

	for i := 1; i < 64; i += 2 {
		tree.Remove(EntityID(i))
	}
	assert.Nil(t, tree.root)
	assert.Equal(t, 0, tree.Count())
}

func TestBBTree_VirtualCells(t *testing.T) {
	tree := NewBBTree(10)
	tree.Insert(0, NewBB(12, 12, 13, 13))

	assert.Equal(t, Cell{1, 1}, tree.CellOf(Vector{19.9, 10}))
	assert.Equal(t, []EntityID{0}, collectCell(tree, Vector{15, 15}))
	assert.Empty(t, collectCell(tree, Vector{5, 15}))
}
