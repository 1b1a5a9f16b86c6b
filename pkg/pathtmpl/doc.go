// Package pathtmpl compiles path templates into matchers and builders.
//
// A template combines literal segments with URL parameters (:id), splat
// parameters (*rest), matrix parameters (;sort) and a trailing query
// declaration (?page&filter):
//
//	tpl, err := pathtmpl.Parse("/users/:id;view?tab")
//	params, ok := tpl.Test("/users/42;view=full?tab=posts")
//	path, err := tpl.Build(pathtmpl.Params{"id": "42", "view": "full"})
//
// Templates are immutable after Parse and safe for concurrent use.
package pathtmpl
