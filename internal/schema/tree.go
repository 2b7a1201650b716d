// Package schema provides the FIR record tree and dotted-path access.
//
// A record is a plain JSON-shaped tree (map[string]any over the closed
// value set: nil, bool, float64, string, map[string]any, []any), addressed
// by dotted paths like "complainant.name". All traversal uses explicit
// type switches — no reflection, no struct tags.
package schema

import (
	"fmt"
	"strings"
)

// Tree is a nested FIR record instance.
type Tree = map[string]any

// Path is a parsed dotted path. Segments are fixed at parse time and are
// never re-split, so lookup is structural rather than string-based.
type Path []string

// ParsePath splits a dotted path string into segments.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// String re-joins the path segments with dots.
func (p Path) String() string {
	return strings.Join([]string(p), ".")
}

// Get descends the tree along path. The second return is false when any
// intermediate node is missing or not a map, or the final key is absent.
// Get never panics, regardless of how malformed the path is.
func Get(tree Tree, path Path) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var current any = tree
	for _, seg := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString is Get narrowed to string leaves. Missing paths and non-string
// values both return "".
func GetString(tree Tree, path Path) string {
	v, ok := Get(tree, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set descends the tree along path, creating empty maps for missing
// intermediate segments, and assigns the leaf. The tree is mutated in
// place. When an intermediate segment already holds a non-map value, Set
// refuses to clobber it and returns an error.
func Set(tree Tree, path Path, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path")
	}
	current := tree
	for i, seg := range path[:len(path)-1] {
		child, ok := current[seg]
		if !ok || child == nil {
			next := map[string]any{}
			current[seg] = next
			current = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("path %q: segment %q holds a non-container value", path.String(), strings.Join(path[:i+1], "."))
		}
		current = next
	}
	current[path[len(path)-1]] = value
	return nil
}

// Clone returns a deep copy of the tree.
func Clone(tree Tree) Tree {
	return deepCopy(tree).(map[string]any)
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, child := range val {
			out = append(out, deepCopy(child))
		}
		return out
	default:
		return val
	}
}

// Prune returns a deep copy of the tree with every nil value, empty string,
// empty slice, and recursively-emptied map removed. The input is not
// mutated. Prune is idempotent.
func Prune(tree Tree) Tree {
	pruned, _ := pruneValue(tree)
	out, ok := pruned.(map[string]any)
	if !ok {
		return Tree{}
	}
	return out
}

// pruneValue returns the pruned copy and whether the value survived.
func pruneValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if val == "" {
			return nil, false
		}
		return val, true
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if kept, ok := pruneValue(child); ok {
				out[k] = kept
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	case []any:
		out := make([]any, 0, len(val))
		for _, child := range val {
			if kept, ok := pruneValue(child); ok {
				out = append(out, kept)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	default:
		return val, true
	}
}
