// Package routetree maintains a tree of named route nodes, each optionally
// carrying a compiled path template.
//
// Nodes are addressed by dot-joined names ("users.profile.view"). Adding a
// definition whose name already exists merges it onto the existing node;
// matching walks children in specificity order (literal segments before
// parameterized ones, splat segments last) without backtracking across
// committed choices; building concatenates the sub-paths of a node's
// ancestor chain and merges query parameters at the end.
package routetree
