package gp

import "fmt"

// Tree is an expression tree stored in prefix order. The zero Tree is empty
// and evaluates to Sentinel. Trees have no in-place mutators: structural
// changes go through CloneSubtreeAt and ReplaceSubtreeAt, which allocate.
type Tree struct {
	nodes []Node
}

// Leaf returns a single feature terminal.
func Leaf(feature int) Tree {
	return Tree{nodes: []Node{{Kind: KindTerminal, Feature: feature}}}
}

// Const returns a single constant.
func Const(v float64) Tree {
	return Tree{nodes: []Node{{Kind: KindConstant, Value: v}}}
}

// Func combines two trees under op.
func Func(op Op, x, y Tree) Tree {
	nodes := make([]Node, 0, 1+len(x.nodes)+len(y.nodes))
	nodes = append(nodes, Node{Kind: KindFunction, Op: op})
	nodes = append(nodes, x.nodes...)
	nodes = append(nodes, y.nodes...)
	return Tree{nodes: nodes}
}

// FromNodes builds a tree from prefix-ordered nodes. The slice is copied.
func FromNodes(nodes []Node) (Tree, error) {
	t := Tree{nodes: append([]Node(nil), nodes...)}
	if len(nodes) == 0 || t.SubtreeEnd(0) != len(nodes) {
		return Tree{}, fmt.Errorf("gp: malformed prefix sequence of %d nodes", len(nodes))
	}
	return t, nil
}

// Nodes returns a copy of the prefix-ordered nodes.
func (t Tree) Nodes() []Node { return append([]Node(nil), t.nodes...) }

// Node returns the node at prefix index i.
func (t Tree) Node(i int) Node { return t.nodes[i] }

// Size returns the number of nodes.
func (t Tree) Size() int { return len(t.nodes) }

// Clone returns a deep copy.
func (t Tree) Clone() Tree { return Tree{nodes: append([]Node(nil), t.nodes...)} }

// Equal reports whether both trees have the same shape and content.
func (t Tree) Equal(o Tree) bool {
	if len(t.nodes) != len(o.nodes) {
		return false
	}
	for i := range t.nodes {
		if t.nodes[i] != o.nodes[i] {
			return false
		}
	}
	return true
}

// Evaluate computes the tree over a feature vector. It never fails and never
// returns a non-finite value; missing features read as 0.
func (t Tree) Evaluate(features []float64) float64 {
	if len(t.nodes) == 0 {
		return Sentinel
	}
	v, _ := t.eval(0, features)
	return v
}

func (t Tree) eval(i int, features []float64) (float64, int) {
	n := t.nodes[i]
	switch n.Kind {
	case KindConstant:
		return finite(n.Value), i + 1
	case KindTerminal:
		if n.Feature < 0 || n.Feature >= len(features) {
			return 0, i + 1
		}
		return finite(features[n.Feature]), i + 1
	default:
		x, next := t.eval(i+1, features)
		y, next := t.eval(next, features)
		return n.Op.Apply(x, y), next
	}
}

// SubtreeEnd returns the index one past the last node of the subtree rooted
// at i.
func (t Tree) SubtreeEnd(i int) int {
	need := 1
	j := i
	for need > 0 && j < len(t.nodes) {
		need += t.nodes[j].arity() - 1
		j++
	}
	return j
}

// depths returns the depth of every node from the root.
func (t Tree) depths() []int {
	d := make([]int, len(t.nodes))
	stack := []int{0}
	for i, n := range t.nodes {
		if len(stack) == 0 {
			break
		}
		depth := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		d[i] = depth
		for k := 0; k < n.arity(); k++ {
			stack = append(stack, depth+1)
		}
	}
	return d
}

// Depth is the number of edges on the longest root-to-leaf path. A single
// leaf has depth 0.
func (t Tree) Depth() int {
	deepest := 0
	for _, d := range t.depths() {
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

// DepthAt returns the depth of node i measured from the root.
func (t Tree) DepthAt(i int) int { return t.depths()[i] }

// CloneSubtreeAt returns a deep copy of the subtree rooted at i.
func (t Tree) CloneSubtreeAt(i int) Tree {
	end := t.SubtreeEnd(i)
	return Tree{nodes: append([]Node(nil), t.nodes[i:end]...)}
}

// ReplaceSubtreeAt returns a new tree where the subtree rooted at i is
// replaced by a copy of sub. The receiver is left untouched.
func (t Tree) ReplaceSubtreeAt(i int, sub Tree) Tree {
	end := t.SubtreeEnd(i)
	nodes := make([]Node, 0, len(t.nodes)-(end-i)+len(sub.nodes))
	nodes = append(nodes, t.nodes[:i]...)
	nodes = append(nodes, sub.nodes...)
	nodes = append(nodes, t.nodes[end:]...)
	return Tree{nodes: nodes}
}

// constants returns the prefix indices of every constant node.
func (t Tree) constants() []int {
	var idx []int
	for i, n := range t.nodes {
		if n.Kind == KindConstant {
			idx = append(idx, i)
		}
	}
	return idx
}

// withNode returns a copy of the tree where node i is replaced by n. n must
// have the same arity as the node it replaces.
func (t Tree) withNode(i int, n Node) Tree {
	c := t.Clone()
	c.nodes[i] = n
	return c
}
