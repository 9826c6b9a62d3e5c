package model

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// TaxonomyFile is the conventional name of the category taxonomy document.
const TaxonomyFile = "cata_tree.json"

// CategoryNode is one entry of the category taxonomy. Name is what the user
// sees; Key is the path segment used to address the same category inside a
// model record. The two frequently differ.
type CategoryNode struct {
	Name     string          `json:"name"`
	Key      string          `json:"key"`
	Children []*CategoryNode `json:"children,omitempty"`
}

// ErrEmptyTaxonomy is returned for a document that decodes to null.
var ErrEmptyTaxonomy = errors.New("taxonomy document is empty")

// ParseTaxonomy decodes a taxonomy document holding a single root node.
func ParseTaxonomy(data []byte) (*CategoryNode, error) {
	var root *CategoryNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	if root == nil {
		return nil, ErrEmptyTaxonomy
	}
	return root, nil
}

// Walk visits n and its descendants depth-first. ancestors holds the keys
// of every ancestor, root first, not including n itself. Returning false
// from fn skips the node's children.
func (n *CategoryNode) Walk(fn func(node *CategoryNode, ancestors []string, depth int) bool) {
	if n == nil {
		return
	}
	n.walk(nil, 0, fn)
}

func (n *CategoryNode) walk(ancestors []string, depth int, fn func(*CategoryNode, []string, int) bool) {
	if !fn(n, ancestors, depth) {
		return
	}
	next := make([]string, len(ancestors)+1)
	copy(next, ancestors)
	next[len(ancestors)] = n.Key
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		child.walk(next, depth+1, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *CategoryNode) Count() int {
	total := 0
	n.Walk(func(*CategoryNode, []string, int) bool {
		total++
		return true
	})
	return total
}
