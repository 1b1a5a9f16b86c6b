package routetree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
)

// BuildPath resolves a dotted name to its node chain and substitutes
// params into each segment's template, merging every declared query
// parameter at the end. Missing required parameters across all segments
// are reported in one *pathtmpl.MissingParamsError.
func (n *Node) BuildPath(name string, params pathtmpl.Params) (string, error) {
	segments, ok := n.segmentsByName(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	used := usedSegments(segments)
	cfg := n.config()

	var b strings.Builder
	var missing []string
	for _, seg := range used {
		if seg.template == nil {
			continue
		}
		sub, err := seg.template.Build(params,
			pathtmpl.WithoutQueryParams(),
			pathtmpl.WithTrailingSlash(pathtmpl.TrailingSlashDefault))
		if err != nil {
			var mp *pathtmpl.MissingParamsError
			if errors.As(err, &mp) {
				missing = append(missing, mp.Params...)
				continue
			}
			return "", err
		}
		appendPath(&b, sub)
	}
	if len(missing) > 0 {
		raw, _ := n.RawPath(name)
		return "", &pathtmpl.MissingParamsError{Pattern: raw, Params: missing}
	}

	path := b.String()
	if path == "" {
		path = "/"
	}
	switch cfg.trailingSlash {
	case pathtmpl.TrailingSlashNever:
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
	case pathtmpl.TrailingSlashAlways:
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
	}

	if query := pathtmpl.BuildQueryString(params, queryNames(used), cfg.encoding); query != "" {
		path += "?" + query
	}
	return path, nil
}

// BuildState resolves a name and params to a Match without building a
// location string. Parameter presence is not validated here; BuildPath is
// the validating operation.
func (n *Node) BuildState(name string, params pathtmpl.Params) (*Match, bool) {
	segments, ok := n.segmentsByName(name)
	if !ok {
		return nil, false
	}

	m := &Match{
		Segments: segments,
		Params:   pathtmpl.Params{},
		Meta:     make(map[string]map[string]string, len(segments)),
	}
	for k, v := range params {
		m.Params[k] = v
	}
	for _, seg := range segments {
		meta := map[string]string{}
		if seg.template != nil {
			for _, pname := range seg.template.URLParamNames() {
				if _, ok := params[pname]; ok {
					meta[pname] = "url"
				}
			}
			for _, qname := range seg.template.QueryParamNames() {
				if _, ok := params[qname]; ok {
					meta[qname] = "query"
				}
			}
		}
		m.Meta[seg.FullName()] = meta
	}
	return m, true
}

// RawPath returns the concatenation of the raw, unsubstituted templates
// along the chain named by the dotted name.
func (n *Node) RawPath(name string) (string, bool) {
	segments, ok := n.segmentsByName(name)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for _, seg := range usedSegments(segments) {
		appendPath(&b, seg.path)
	}
	if b.Len() == 0 {
		return "/", true
	}
	return b.String(), true
}

// usedSegments drops the segments preceding the last absolute node: an
// absolute template opts out of path nesting but keeps name nesting.
func usedSegments(segments []*Node) []*Node {
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].absolute {
			return segments[i:]
		}
	}
	return segments
}

// queryNames returns the declared query parameter names of the given
// segments, deduplicated in declaration order.
func queryNames(segments []*Node) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, seg := range segments {
		if seg.template == nil {
			continue
		}
		for _, name := range seg.template.QueryParamNames() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// appendPath concatenates sub onto b, collapsing the boundary slash.
func appendPath(b *strings.Builder, sub string) {
	if sub == "" {
		return
	}
	s := b.String()
	if strings.HasSuffix(s, "/") && strings.HasPrefix(sub, "/") {
		sub = sub[1:]
	}
	b.WriteString(sub)
}
