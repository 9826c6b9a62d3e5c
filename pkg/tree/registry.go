package tree

// Registry indexes every rendered node by name so that a toggle on one node
// can be applied to all nodes sharing its name, across every pane.
type Registry struct {
	byName map[string][]*Node
	roots  []*Node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string][]*Node)}
}

// Register adds root and its whole subtree, collapsed nodes included.
func (r *Registry) Register(root *Node) {
	if root == nil {
		return
	}
	r.roots = append(r.roots, root)
	root.Walk(func(n *Node) bool {
		r.byName[n.Name] = append(r.byName[n.Name], n)
		return true
	})
}

// Nodes returns the registered nodes carrying name, in registration order.
func (r *Registry) Nodes(name string) []*Node {
	return r.byName[name]
}

// Roots returns the registered roots.
func (r *Registry) Roots() []*Node {
	return r.roots
}

// Toggle flips the clicked node and applies the same new state to every
// registered node with the clicked node's name. Leaves have no toggle
// control, so toggling one changes nothing. It returns the new state and
// the number of nodes updated.
func (r *Registry) Toggle(clicked *Node) (expanded bool, updated int) {
	if clicked == nil || clicked.IsLeaf() {
		return false, 0
	}
	expanded = !clicked.Expanded
	for _, n := range r.byName[clicked.Name] {
		n.Expanded = expanded
		updated++
	}
	// The clicked node may belong to a tree that was never registered.
	clicked.Expanded = expanded
	return expanded, updated
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	total := 0
	for _, nodes := range r.byName {
		total += len(nodes)
	}
	return total
}

// Reset forgets every registered node. Panes call it before a full
// re-render.
func (r *Registry) Reset() {
	r.byName = make(map[string][]*Node)
	r.roots = nil
}
