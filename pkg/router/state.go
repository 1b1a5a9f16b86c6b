package router

import (
	"strings"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
)

// Params carries route parameter values keyed by name. It is the same
// shape pathtmpl produces: strings for ordinary parameters, []string for
// repeated query keys, bool for flag query keys.
type Params = pathtmpl.Params

// UnknownRouteName is the synthetic route name used for not-found states
// when the router is configured to allow them. The matched path is kept
// in the "path" parameter.
const UnknownRouteName = "@@wayfare/UNKNOWN_ROUTE"

// NavigationOptions tune a single Navigate call.
type NavigationOptions struct {
	// Replace asks history adapters to replace the current entry
	// instead of pushing a new one.
	Replace bool
	// Reload forces the full segment chain to deactivate and
	// reactivate even when the target equals the current state.
	Reload bool
	// Force skips the same-state check but keeps the ordinary
	// activation diff.
	Force bool
	// Redirected marks states produced by a guard redirect.
	Redirected bool
	// Source labels what initiated the navigation, for example
	// "popstate" from a history adapter. Empty for plain Navigate.
	Source string
}

// Meta describes how a State came to be.
type Meta struct {
	// ID is the monotonically increasing transition identifier, 0 for
	// states produced by MatchPath outside a navigation.
	ID int64
	// Params maps each segment full name to the parameters it
	// contributed and their origin, "url" or "query".
	Params map[string]map[string]string
	// Options are the navigation options in effect when the state was
	// produced.
	Options NavigationOptions
	// Redirected is set when the state was reached through a guard
	// redirect.
	Redirected bool
	// Source mirrors Options.Source.
	Source string
}

// State is an immutable snapshot of a resolved route: the full dotted
// name, the merged parameter set, and the concrete path. Meta is nil only
// for states constructed by hand.
type State struct {
	Name   string
	Params Params
	Path   string
	Meta   *Meta
}

// Copy returns a state sharing nothing mutable with the receiver.
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Params = make(Params, len(s.Params))
	for k, v := range s.Params {
		out.Params[k] = v
	}
	if s.Meta != nil {
		meta := *s.Meta
		meta.Params = make(map[string]map[string]string, len(s.Meta.Params))
		for seg, params := range s.Meta.Params {
			inner := make(map[string]string, len(params))
			for k, v := range params {
				inner[k] = v
			}
			meta.Params[seg] = inner
		}
		out.Meta = &meta
	}
	return &out
}

// chainNames expands a full dotted name into the names of every segment
// on its chain, shallowest first: "a.b.c" yields ["a", "a.b", "a.b.c"].
func chainNames(name string) []string {
	if name == "" {
		return nil
	}
	parts := strings.Split(name, ".")
	out := make([]string, len(parts))
	for i := range parts {
		out[i] = strings.Join(parts[:i+1], ".")
	}
	return out
}

func paramEqual(a, b any) bool {
	switch av := a.(type) {
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// segmentParamNames collects the parameter names a segment contributed to
// a state, optionally restricted to URL-sourced parameters. States lacking
// meta contribute every parameter to every segment, which degrades the
// diff to all-or-nothing but stays correct.
func segmentParamNames(s *State, segment string, urlOnly bool) []string {
	if s.Meta == nil || s.Meta.Params == nil {
		names := make([]string, 0, len(s.Params))
		for k := range s.Params {
			names = append(names, k)
		}
		return names
	}
	owned := s.Meta.Params[segment]
	names := make([]string, 0, len(owned))
	for k, origin := range owned {
		if urlOnly && origin != "url" {
			continue
		}
		names = append(names, k)
	}
	return names
}

// segmentParamsEqual reports whether the URL parameters a segment owns
// hold the same values in both states.
func segmentParamsEqual(segment string, a, b *State) bool {
	names := segmentParamNames(a, segment, true)
	for _, n := range names {
		if !paramEqual(a.Params[n], b.Params[n]) {
			return false
		}
	}
	// A parameter present only on the b side is also a difference.
	for _, n := range segmentParamNames(b, segment, true) {
		if _, ok := a.Params[n]; !ok {
			return false
		}
	}
	return true
}

// statesEqual implements the same-state check. Two states are equal when
// they name the same route with equal URL parameters, and, unless query
// parameters are ignored, equal query parameters.
func statesEqual(a, b *State, ignoreQuery bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name {
		return false
	}
	if a.Meta == nil || b.Meta == nil {
		// No provenance to classify by; compare the whole set.
		if len(a.Params) != len(b.Params) {
			return false
		}
		for k, v := range a.Params {
			if !paramEqual(v, b.Params[k]) {
				return false
			}
		}
		return true
	}
	aNames := allParamNames(a, !ignoreQuery)
	bNames := allParamNames(b, !ignoreQuery)
	if len(aNames) != len(bNames) {
		return false
	}
	for n := range aNames {
		if _, ok := bNames[n]; !ok {
			return false
		}
		if !paramEqual(a.Params[n], b.Params[n]) {
			return false
		}
	}
	return true
}

func allParamNames(s *State, includeQuery bool) map[string]struct{} {
	out := make(map[string]struct{})
	for _, params := range s.Meta.Params {
		for k, origin := range params {
			if !includeQuery && origin == "query" {
				continue
			}
			out[k] = struct{}{}
		}
	}
	return out
}

// transitionDiff is the reconciliation plan between two states: segments
// to deactivate deepest first, segments to activate shallowest first, and
// the retained intersection shallowest first.
type transitionDiff struct {
	intersection []string
	deactivate   []string
	activate     []string
}

// computeDiff walks the two segment chains from the root and keeps the
// common prefix whose names and URL parameters agree. Reload empties the
// intersection so every segment cycles. A nil fromState activates the
// whole chain.
func computeDiff(toState, fromState *State, reload bool) transitionDiff {
	toChain := chainNames(toState.Name)
	var fromChain []string
	if fromState != nil {
		fromChain = chainNames(fromState.Name)
	}

	keep := 0
	if !reload && fromState != nil {
		max := len(toChain)
		if len(fromChain) < max {
			max = len(fromChain)
		}
		for keep < max && toChain[keep] == fromChain[keep] &&
			segmentParamsEqual(toChain[keep], fromState, toState) {
			keep++
		}
	}

	deactivate := make([]string, 0, len(fromChain)-keep)
	for i := len(fromChain) - 1; i >= keep; i-- {
		deactivate = append(deactivate, fromChain[i])
	}
	return transitionDiff{
		intersection: toChain[:keep],
		deactivate:   deactivate,
		activate:     toChain[keep:],
	}
}
