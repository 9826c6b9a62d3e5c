// Package tree turns a model record into the expandable node structure shown
// in a pane.
package tree

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
)

// DepthClasses is the length of the cyclic depth palette.
const DepthClasses = 6

// Reserved record keys. They are never shown as children: score and
// data_size are rendered as node metrics, ranking is read by the rankings
// table through path resolution, ques_ids is opaque.
const (
	KeyScore    = "score"
	KeyDataSize = "data_size"
	KeyQuesIDs  = "ques_ids"
	KeyRanking  = "ranking"
)

// SkipKeys are excluded from child enumeration in addition to the metric
// keys.
var SkipKeys = []string{KeyQuesIDs, KeyRanking}

// IsReserved reports whether key is excluded from child enumeration.
func IsReserved(key string) bool {
	switch key {
	case KeyScore, KeyDataSize, KeyQuesIDs, KeyRanking:
		return true
	}
	return false
}

// Kind classifies a node as Leaf or Branch after reserved keys are removed.
type Kind uint8

const (
	Leaf Kind = iota
	Branch
)

func (k Kind) String() string {
	if k == Branch {
		return "branch"
	}
	return "leaf"
}

// Node is a displayable tree node.
type Node struct {
	Name     string
	Size     int64
	Score    float64
	Depth    int
	Kind     Kind
	Children []*Node
	Parent   *Node
	Expanded bool
	root     bool
}

// BuildNode builds the node for rec and all of its descendants. Only the
// root starts expanded.
func BuildNode(name string, rec model.Value, depth int, isRoot bool) *Node {
	defer metrics.Timer(metrics.TreeBuild)()
	return buildNode(name, rec, depth, isRoot, nil)
}

func buildNode(name string, rec model.Value, depth int, isRoot bool, parent *Node) *Node {
	n := &Node{
		Name:     name,
		Size:     SizeOf(rec),
		Score:    ScoreOf(rec),
		Depth:    depth,
		Parent:   parent,
		Expanded: isRoot,
		root:     isRoot,
	}

	switch rec.Kind() {
	case model.KindObject:
		obj := rec.Object()
		for _, key := range ChildOrder(obj.Keys()) {
			if IsReserved(key) {
				continue
			}
			child, _ := obj.Get(key)
			n.Children = append(n.Children, buildNode(key, child, depth+1, false, n))
		}
	case model.KindArray:
		for i, item := range rec.Array() {
			n.Children = append(n.Children, buildNode(strconv.Itoa(i), item, depth+1, false, n))
		}
	}

	if len(n.Children) > 0 {
		n.Kind = Branch
	}
	return n
}

// ChildOrder returns keys in the order a record's children are listed:
// array-index keys ("0", "7", "10", up to 2^32-2) first in ascending
// numeric order, then every other key in document order. This is the
// order a browser enumerates object properties in.
func ChildOrder(keys []string) []string {
	var indexed []string
	for _, k := range keys {
		if _, ok := arrayIndex(k); ok {
			indexed = append(indexed, k)
		}
	}
	if len(indexed) == 0 {
		return keys
	}
	sort.SliceStable(indexed, func(i, j int) bool {
		a, _ := arrayIndex(indexed[i])
		b, _ := arrayIndex(indexed[j])
		return a < b
	})
	out := make([]string, 0, len(keys))
	out = append(out, indexed...)
	for _, k := range keys {
		if _, ok := arrayIndex(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

// arrayIndex accepts canonical decimal integers only: no sign, no leading
// zero (except "0" itself) and below 2^32-1.
func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(k); i++ {
		if k[i] < '0' || k[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(k, 10, 64)
	if err != nil || n >= math.MaxUint32 {
		return 0, false
	}
	return n, true
}

// SizeOf returns the data_size metric of rec: integral numbers as-is,
// fractional ones rounded half up, numeric strings coerced the same way and
// anything else 0. Sizes beyond the int64 range saturate. A zero size and a
// missing one look the same.
func SizeOf(rec model.Value) int64 {
	raw, ok := rec.Field(KeyDataSize)
	if !ok {
		return 0
	}
	var f float64
	switch raw.Kind() {
	case model.KindNumber:
		f, _ = raw.Number()
	case model.KindString:
		s, _ := raw.Str()
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f != math.Trunc(f) {
		f = math.Floor(f + 0.5)
	}
	// float64(math.MaxInt64) is 2^63, which int64 cannot hold.
	switch {
	case f >= float64(math.MaxInt64):
		return math.MaxInt64
	case f <= float64(math.MinInt64):
		return math.MinInt64
	}
	return int64(f)
}

// ScoreOf returns the score metric of rec, or 0 when it is not a number.
func ScoreOf(rec model.Value) float64 {
	raw, _ := rec.Field(KeyScore)
	f, _ := raw.Number()
	return f
}

// DepthClass maps a depth onto the cyclic palette index.
func DepthClass(depth int) int {
	c := depth % DepthClasses
	if c < 0 {
		c += DepthClasses
	}
	return c
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsRoot reports whether the node was built as a pane root.
func (n *Node) IsRoot() bool { return n.root }

// DepthClass returns the palette index for the node.
func (n *Node) DepthClass() int { return DepthClass(n.Depth) }

// ScoreText formats the score with two decimals.
func (n *Node) ScoreText() string { return fmt.Sprintf("%.2f", n.Score) }

// SizeText formats the size metric.
func (n *Node) SizeText() string { return strconv.FormatInt(n.Size, 10) }

// ToggleGlyph returns "-" for an expanded branch, "+" for a collapsed one
// and "" for leaves, which have no toggle control.
func (n *Node) ToggleGlyph() string {
	if n.IsLeaf() {
		return ""
	}
	if n.Expanded {
		return "-"
	}
	return "+"
}

// Walk visits n and every descendant in pre-order, regardless of
// expansion. Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Visible returns the nodes a reader can currently see: n itself and the
// descendants of expanded branches, in display order.
func (n *Node) Visible() []*Node {
	var out []*Node
	n.appendVisible(&out)
	return out
}

func (n *Node) appendVisible(out *[]*Node) {
	if n == nil {
		return
	}
	*out = append(*out, n)
	if !n.Expanded {
		return
	}
	for _, c := range n.Children {
		c.appendVisible(out)
	}
}

// IsLastChild reports whether n is the final child of its parent.
func (n *Node) IsLastChild() bool {
	if n.Parent == nil {
		return true
	}
	siblings := n.Parent.Children
	return len(siblings) > 0 && siblings[len(siblings)-1] == n
}

// Count returns the size of the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

// Path returns the dotted record path of n below its root; the root
// itself has the empty path. The result can be passed to model.Resolve.
func (n *Node) Path() string {
	var segs []string
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		segs = append(segs, cur.Name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return model.JoinPath(segs...)
}
