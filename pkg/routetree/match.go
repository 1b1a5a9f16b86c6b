package routetree

import (
	"strings"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
)

// Match is the result of resolving a location string against the tree.
type Match struct {
	// Segments is the matched node chain, shallowest first.
	Segments []*Node

	// Params are the accumulated parameters of every segment.
	Params pathtmpl.Params

	// Meta records the origin of each parameter per segment full name:
	// "url" for path-derived values, "query" for query-derived ones.
	Meta map[string]map[string]string
}

// segMatch pairs a matched node with the params its template extracted.
type segMatch struct {
	node   *Node
	params pathtmpl.Params
}

// MatchPath resolves a location string (path plus optional query) against
// the tree. It returns nil when nothing matches. Starting nodes are the
// tree's top-level nodes plus every absolute descendant; children are
// tried in specificity order and a committed descent is never backtracked.
func (n *Node) MatchPath(path string) *Match {
	cfg := n.config()

	pathPart, query, _ := strings.Cut(path, "?")
	if pathPart == "" {
		pathPart = "/"
	}

	hadTrailing := len(pathPart) > 1 && strings.HasSuffix(pathPart, "/")
	switch cfg.trailingSlash {
	case pathtmpl.TrailingSlashNever:
		if hadTrailing {
			return nil
		}
	case pathtmpl.TrailingSlashAlways:
		if !hadTrailing && pathPart != "/" {
			return nil
		}
	}
	if hadTrailing {
		pathPart = strings.TrimSuffix(pathPart, "/")
	}

	chain := matchLevel(n.children, pathPart, nil, true)
	if chain == nil {
		// Absolute descendants match against the full path,
		// regardless of their ancestors' templates.
		for _, start := range n.absoluteDescendants() {
			prefix := ancestorChain(start)
			if chain = matchNode(start, pathPart, prefix); chain != nil {
				break
			}
		}
	}
	if chain == nil {
		return nil
	}

	return n.finishMatch(chain, query, cfg)
}

// matchLevel walks one sibling list. A child whose template consumes part
// of the path and has children to consume the rest is a committed choice:
// its subtree failing fails the whole level.
func matchLevel(children []*Node, remaining string, acc []segMatch, topLevel bool) []segMatch {
	for _, child := range children {
		if child.absolute && !topLevel {
			// Tried separately, against the full path.
			continue
		}
		if child.template == nil {
			if len(child.children) == 0 {
				continue
			}
			next := appendSeg(acc, child, nil)
			if res := matchLevel(child.children, remaining, next, false); res != nil {
				return res
			}
			continue
		}

		params, consumed, ok := child.template.PartialTest(remaining)
		if !ok || consumed == 0 {
			continue
		}
		rest := remaining[consumed:]
		next := appendSeg(acc, child, params)
		if rest == "" {
			return next
		}
		if len(child.children) == 0 {
			continue
		}
		return matchLevel(child.children, rest, next, false)
	}
	return nil
}

// matchNode matches a single start node (an absolute descendant) against
// the full path, descending into its children for any remainder.
func matchNode(node *Node, remaining string, prefix []segMatch) []segMatch {
	if node.template == nil {
		return nil
	}
	params, consumed, ok := node.template.PartialTest(remaining)
	if !ok || consumed == 0 {
		return nil
	}
	rest := remaining[consumed:]
	acc := appendSeg(prefix, node, params)
	if rest == "" {
		return acc
	}
	if len(node.children) == 0 {
		return nil
	}
	return matchLevel(node.children, rest, acc, false)
}

// appendSeg copies acc before appending so sibling attempts never share
// backing arrays.
func appendSeg(acc []segMatch, node *Node, params pathtmpl.Params) []segMatch {
	next := make([]segMatch, len(acc), len(acc)+1)
	copy(next, acc)
	return append(next, segMatch{node: node, params: params})
}

// absoluteDescendants collects every absolute node below the top level in
// traversal order.
func (n *Node) absoluteDescendants() []*Node {
	var nodes []*Node
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		for _, child := range node.children {
			if child.absolute && depth > 0 {
				nodes = append(nodes, child)
			}
			walk(child, depth+1)
		}
	}
	walk(n, 0)
	return nodes
}

// ancestorChain returns the segMatch prefix for a node's ancestors,
// shallowest first, with no extracted params.
func ancestorChain(node *Node) []segMatch {
	var rev []*Node
	for p := node.parent; p != nil && p.name != ""; p = p.parent {
		rev = append(rev, p)
	}
	chain := make([]segMatch, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		chain = append(chain, segMatch{node: rev[i]})
	}
	return chain
}

// finishMatch merges segment params, resolves query parameters and builds
// the match meta. It returns nil when undeclared query parameters violate
// the strict mode.
func (n *Node) finishMatch(chain []segMatch, query string, cfg *treeConfig) *Match {
	m := &Match{
		Params: pathtmpl.Params{},
		Meta:   make(map[string]map[string]string, len(chain)),
	}

	declared := make(map[string]struct{})
	for _, seg := range chain {
		m.Segments = append(m.Segments, seg.node)
		fullName := seg.node.FullName()
		meta := map[string]string{}
		for name, v := range seg.params {
			m.Params[name] = v
			meta[name] = "url"
		}
		if seg.node.template != nil {
			for _, name := range seg.node.template.QueryParamNames() {
				declared[name] = struct{}{}
			}
		}
		m.Meta[fullName] = meta
	}

	qvals := pathtmpl.ParseQueryString(query, cfg.encoding)
	for name, v := range qvals {
		if _, ok := declared[name]; ok {
			m.Params[name] = v
			// Attribute the value to the deepest segment declaring it.
			for i := len(chain) - 1; i >= 0; i-- {
				seg := chain[i]
				if seg.node.template == nil {
					continue
				}
				if containsName(seg.node.template.QueryParamNames(), name) {
					m.Meta[seg.node.FullName()][name] = "query"
					break
				}
			}
			continue
		}
		switch cfg.queryParams {
		case pathtmpl.QueryParamsStrict:
			return nil
		case pathtmpl.QueryParamsLoose:
			m.Params[name] = v
		}
	}
	return m
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
