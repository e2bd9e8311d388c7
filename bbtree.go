package collide

// BBTree is a dynamic bounding volume tree. Leaves are inserted where they
// grow the tree's area the least. It has no grid of its own: cells are
// squares of side celldim found by rounding node boxes to cells, which makes
// it a better fit than SpaceHash when entity sizes vary widely.
type BBTree struct {
	celldim float64

	leaves map[EntityID]*Node
	root   *Node

	pooledNodes *Node
}

// Node is a leaf when it has no children.
type Node struct {
	id     EntityID
	bb     BB
	parent *Node

	a, b *Node
}

func NewBBTree(celldim float64) *BBTree {
	return &BBTree{
		celldim: celldim,
		leaves:  map[EntityID]*Node{},
	}
}

func (tree *BBTree) Count() int {
	return len(tree.leaves)
}

func (tree *BBTree) Contains(id EntityID) bool {
	_, ok := tree.leaves[id]
	return ok
}

func (tree *BBTree) Insert(id EntityID, bb BB) {
	if _, ok := tree.leaves[id]; ok {
		tree.Remove(id)
	}

	leaf := tree.NewLeaf(id, bb)
	tree.leaves[id] = leaf
	tree.root = tree.SubtreeInsert(tree.root, leaf)
}

func (tree *BBTree) Remove(id EntityID) {
	leaf, ok := tree.leaves[id]
	if !ok {
		return
	}

	delete(tree.leaves, id)
	tree.root = tree.SubtreeRemove(tree.root, leaf)
	tree.NodeRecycle(leaf)
}

func (tree *BBTree) Query(bb BB, f SpatialIndexQuery) {
	if tree.root != nil {
		tree.root.SubtreeQuery(bb, f)
	}
}

func (tree *BBTree) CellOf(v Vector) Cell {
	return cellFor(v, tree.celldim)
}

func (tree *BBTree) EachInCell(cell Cell, f SpatialIndexQuery) {
	if tree.root != nil {
		tree.root.SubtreeQueryCell(cell, tree.celldim, f)
	}
}

func (tree *BBTree) Clear() {
	tree.root = nil
	tree.leaves = map[EntityID]*Node{}
}

// SubtreeQuery visits the leaves overlapping bb and reports whether the
// walk ran to completion.
func (subtree *Node) SubtreeQuery(bb BB, f SpatialIndexQuery) bool {
	if !subtree.bb.Intersects(bb) {
		return true
	}
	if subtree.IsLeaf() {
		return f(subtree.id)
	}
	return subtree.a.SubtreeQuery(bb, f) && subtree.b.SubtreeQuery(bb, f)
}

// SubtreeQueryCell is SubtreeQuery over the leaves reaching cell.
func (subtree *Node) SubtreeQueryCell(cell Cell, celldim float64, f SpatialIndexQuery) bool {
	if !coversCell(subtree.bb, cell, celldim) {
		return true
	}
	if subtree.IsLeaf() {
		return f(subtree.id)
	}
	return subtree.a.SubtreeQueryCell(cell, celldim, f) && subtree.b.SubtreeQueryCell(cell, celldim, f)
}

func (tree *BBTree) SubtreeInsert(subtree *Node, leaf *Node) *Node {
	if subtree == nil {
		return leaf
	}
	if subtree.IsLeaf() {
		return tree.NewNode(leaf, subtree)
	}

	costA := subtree.b.bb.Area() + subtree.a.bb.MergedArea(leaf.bb)
	costB := subtree.a.bb.Area() + subtree.b.bb.MergedArea(leaf.bb)

	if costA == costB {
		costA = subtree.a.bb.Proximity(leaf.bb)
		costB = subtree.b.bb.Proximity(leaf.bb)
	}

	if costB < costA {
		NodeSetB(subtree, tree.SubtreeInsert(subtree.b, leaf))
	} else {
		NodeSetA(subtree, tree.SubtreeInsert(subtree.a, leaf))
	}

	subtree.bb = subtree.bb.Merge(leaf.bb)
	return subtree
}

func (tree *BBTree) SubtreeRemove(subtree *Node, leaf *Node) *Node {
	if leaf == subtree {
		return nil
	}

	parent := leaf.parent
	if parent == subtree {
		other := subtree.Other(leaf)
		other.parent = subtree.parent
		tree.NodeRecycle(subtree)
		return other
	}

	tree.NodeReplaceChild(parent.parent, parent, parent.Other(leaf))
	return subtree
}

// NodeReplaceChild swaps child of parent for value and refits the boxes up
// to the root.
func (tree *BBTree) NodeReplaceChild(parent, child, value *Node) {
	if parent.a == child {
		tree.NodeRecycle(parent.a)
		NodeSetA(parent, value)
	} else {
		tree.NodeRecycle(parent.b)
		NodeSetB(parent, value)
	}

	for node := parent; node != nil; node = node.parent {
		node.bb = node.a.bb.Merge(node.b.bb)
	}
}

func (node *Node) IsLeaf() bool {
	return node.a == nil
}

func (node *Node) Other(child *Node) *Node {
	if node.a == child {
		return node.b
	}
	return node.a
}

func (tree *BBTree) NewNode(a, b *Node) *Node {
	node := tree.NodeFromPool()
	node.bb = a.bb.Merge(b.bb)
	node.parent = nil

	NodeSetA(node, a)
	NodeSetB(node, b)
	return node
}

func NodeSetA(node, value *Node) {
	node.a = value
	value.parent = node
}

func NodeSetB(node, value *Node) {
	node.b = value
	value.parent = node
}

func (tree *BBTree) NewLeaf(id EntityID, bb BB) *Node {
	node := tree.NodeFromPool()
	node.id = id
	node.bb = bb
	node.parent = nil
	node.a, node.b = nil, nil

	return node
}

func (tree *BBTree) NodeFromPool() *Node {
	node := tree.pooledNodes

	if node != nil {
		tree.pooledNodes = node.parent
		return node
	}

	// Pool is exhausted make more
	for i := 0; i < 32; i++ {
		tree.NodeRecycle(&Node{})
	}

	return tree.NodeFromPool()
}

func (tree *BBTree) NodeRecycle(node *Node) {
	node.a, node.b = nil, nil
	node.parent = tree.pooledNodes
	tree.pooledNodes = node
}

var _ SpatialIndexer = (*BBTree)(nil)
