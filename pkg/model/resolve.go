package model

import "strings"

// PathSeparator joins the segments of a category path.
const PathSeparator = "."

// JoinPath builds a dotted path from segments.
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// SplitPath splits a dotted path into segments. The empty path is a single
// empty segment, mirroring how the path was built.
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// Resolve descends through rec one path segment at a time and returns the
// value found there. The second result is false when a segment is missing
// or the value reached so far is not an object. Resolve never fails.
func Resolve(rec Value, path string) (Value, bool) {
	cur := rec
	for _, seg := range SplitPath(path) {
		obj := cur.Object()
		if obj == nil {
			return Value{}, false
		}
		next, ok := obj.Get(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}
