package routetree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
)

// Definition describes one route to add to the tree. Name may be dotted,
// in which case it is resolved relative to the node Add is called on.
// A Path beginning with "~" marks the node absolute: its template matches
// and builds from the path root, ignoring ancestor templates.
type Definition struct {
	Name     string
	Path     string
	Children []Definition
}

// AddCallback is invoked for every node created or merged by Add, with the
// node's full dotted name and the definition that produced it.
type AddCallback func(fullName string, def Definition)

// Node is one named segment of the route tree.
type Node struct {
	name     string
	path     string
	template *pathtmpl.Template
	absolute bool

	parent   *Node
	children []*Node

	// cfg is set on the root node only and governs compilation and
	// matching for the whole tree.
	cfg *treeConfig
}

// New creates an empty tree root. The options apply to every template
// compiled into the tree and to every match.
func New(opts ...Option) *Node {
	cfg := &treeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Node{cfg: cfg}
}

// root walks up to the tree root.
func (n *Node) root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// config returns the tree configuration, tolerating detached subtrees.
func (n *Node) config() *treeConfig {
	if r := n.root(); r.cfg != nil {
		return r.cfg
	}
	return &treeConfig{}
}

// Name returns the node's local name.
func (n *Node) Name() string { return n.name }

// Path returns the node's raw pattern, without the "~" marker.
func (n *Node) Path() string { return n.path }

// Absolute reports whether the node's path is anchored at the root.
func (n *Node) Absolute() bool { return n.absolute }

// Template returns the node's compiled template, or nil.
func (n *Node) Template() *pathtmpl.Template { return n.template }

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in match order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// FullName returns the dot-join of the node's ancestor chain including
// itself. The root has an empty full name.
func (n *Node) FullName() string {
	if n.parent == nil {
		return n.name
	}
	parts := []string{n.name}
	for p := n.parent; p != nil && p.name != ""; p = p.parent {
		parts = append(parts, p.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Add inserts or merges a definition under n. Dotted names resolve to
// their direct parent first. When a same-named sibling exists, properties
// are merged onto it in place and children merge recursively; otherwise a
// new node is inserted after checking no sibling owns an identical path.
// onAdd, when non-nil, fires for every node touched. Children are kept in
// specificity order unless sortNodes is false.
func (n *Node) Add(def Definition, onAdd AddCallback, sortNodes bool) error {
	if def.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	parent := n
	localName := def.Name
	if idx := strings.LastIndex(def.Name, "."); idx >= 0 {
		parentName := def.Name[:idx]
		localName = def.Name[idx+1:]
		segments, ok := n.segmentsByName(parentName)
		if !ok {
			return fmt.Errorf("%w: %q (adding %q)", ErrMissingParent, parentName, def.Name)
		}
		parent = segments[len(segments)-1]
	}
	if localName == "" || strings.Contains(localName, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, def.Name)
	}

	return parent.addChild(localName, def, onAdd, sortNodes)
}

// addChild merges or inserts def as a direct child named localName.
func (n *Node) addChild(localName string, def Definition, onAdd AddCallback, sortNodes bool) error {
	path := def.Path
	absolute := strings.HasPrefix(path, "~")
	if absolute {
		path = path[1:]
	}

	var tpl *pathtmpl.Template
	if path != "" {
		var err error
		tpl, err = pathtmpl.Parse(path, n.root().config().tplOptions()...)
		if err != nil {
			return err
		}
	}

	if absolute {
		for p := n; p != nil; p = p.parent {
			if p.template != nil && p.template.HasParams() {
				return fmt.Errorf("%w: %q under %q", ErrAbsoluteUnderParams, localName, p.FullName())
			}
		}
	}

	child := n.findChild(localName)
	// No two siblings may accept the same paths, whether the definition
	// inserts a new node or updates an existing one in place.
	if path != "" {
		for _, sibling := range n.children {
			if sibling != child && sibling.path != "" && sibling.path == path {
				return fmt.Errorf("%w: %q and %q both use %q",
					ErrDuplicatePath, sibling.name, localName, path)
			}
		}
	}
	if child == nil {
		child = &Node{
			name:     localName,
			path:     path,
			template: tpl,
			absolute: absolute,
			parent:   n,
		}
		n.children = append(n.children, child)
	} else if path != "" {
		// Update in place: a re-added definition may refine the path.
		child.path = path
		child.template = tpl
		child.absolute = absolute
	}

	if onAdd != nil {
		onAdd(child.FullName(), def)
	}

	for _, childDef := range def.Children {
		if err := child.Add(childDef, onAdd, sortNodes); err != nil {
			return err
		}
	}

	if sortNodes {
		n.sortChildren()
	}
	return nil
}

// Remove detaches the direct child named by the first dot-delimited token
// of name, along with its whole subtree. It reports whether a removal
// occurred and never fails for unknown names.
//
// Only the first token is consulted: Remove("users.list") on the root
// removes "users" entirely. Call Remove on the parent node to prune a
// deeper subtree.
func (n *Node) Remove(name string) bool {
	first, _, _ := strings.Cut(name, ".")
	for i, child := range n.children {
		if child.name == first {
			child.parent = nil
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByFullName detaches the node addressed by the full dotted name
// from its direct parent. It reports whether a removal occurred.
func (n *Node) RemoveByFullName(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return n.Remove(name)
	}
	segments, ok := n.segmentsByName(name[:idx])
	if !ok {
		return false
	}
	return segments[len(segments)-1].Remove(name[idx+1:])
}

// findChild returns the direct child with the given local name.
func (n *Node) findChild(name string) *Node {
	for _, child := range n.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// segmentsByName resolves a dotted name to the chain of nodes from the
// first segment down to the named node.
func (n *Node) segmentsByName(name string) ([]*Node, bool) {
	if name == "" {
		return nil, false
	}
	current := n
	var segments []*Node
	for _, part := range strings.Split(name, ".") {
		child := current.findChild(part)
		if child == nil {
			return nil, false
		}
		segments = append(segments, child)
		current = child
	}
	return segments, true
}

// Find returns the node addressed by the dotted name.
func (n *Node) Find(name string) (*Node, bool) {
	segments, ok := n.segmentsByName(name)
	if !ok {
		return nil, false
	}
	return segments[len(segments)-1], true
}

// specificity ranks a node for match ordering: literal-only templates
// first, parameterized ones after, splats last.
func (n *Node) specificity() int {
	switch {
	case n.template == nil:
		return 0
	case n.template.HasSplatParam():
		return 2
	case n.template.HasURLParams() || n.template.HasMatrixParams():
		return 1
	default:
		return 0
	}
}

// sortChildren orders children by specificity, preserving insertion order
// among equals.
func (n *Node) sortChildren() {
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].specificity() < n.children[j].specificity()
	})
}

// Clone returns a deep, independent copy of the node and its subtree.
// Compiled templates are shared; they are immutable.
func (n *Node) Clone() *Node {
	c := &Node{
		name:     n.name,
		path:     n.path,
		template: n.template,
		absolute: n.absolute,
	}
	if n.cfg != nil {
		cfg := *n.cfg
		c.cfg = &cfg
	}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// AddNode grafts a clone of node (and its subtree) under n, so the source
// never aliases engine-owned nodes. The node's local name must be simple.
func (n *Node) AddNode(node *Node, onAdd AddCallback, sortNodes bool) error {
	if node == nil || node.name == "" {
		return fmt.Errorf("%w: nil or unnamed node", ErrInvalidName)
	}
	def := node.definition()
	return n.Add(def, onAdd, sortNodes)
}

// definition reconstructs the Definition that produced this subtree.
func (n *Node) definition() Definition {
	path := n.path
	if n.absolute {
		path = "~" + path
	}
	def := Definition{Name: n.name, Path: path}
	for _, child := range n.children {
		def.Children = append(def.Children, child.definition())
	}
	return def
}
