package pathtmpl

import "strings"

// Build substitutes params into the pattern and returns the resulting
// path. Every URL, matrix and splat parameter is required; a
// *MissingParamsError lists all absent keys. Declared query parameters
// are optional and appended when present.
func (t *Template) Build(params Params, opts ...Option) (string, error) {
	set := t.set
	for _, opt := range opts {
		opt(&set)
	}
	if params == nil {
		params = Params{}
	}

	var missing []string
	var b strings.Builder

	for _, tok := range t.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.value)
		case tokenParam:
			s, ok := lookupParamString(params, tok.value)
			if !ok {
				missing = append(missing, tok.value)
				continue
			}
			b.WriteString(encodeValue(s, set.encoding, false))
		case tokenMatrix:
			s, ok := lookupParamString(params, tok.value)
			if !ok {
				missing = append(missing, tok.value)
				continue
			}
			b.WriteByte(';')
			b.WriteString(tok.value)
			b.WriteByte('=')
			b.WriteString(encodeValue(s, set.encoding, false))
		case tokenSplat:
			s, ok := lookupSplatString(params, tok.value)
			if !ok {
				missing = append(missing, tok.value)
				continue
			}
			b.WriteString(encodeValue(s, set.encoding, true))
		}
	}

	if len(missing) > 0 {
		return "", &MissingParamsError{Pattern: t.pattern, Params: missing}
	}

	path := b.String()
	switch set.trailingSlash {
	case TrailingSlashDefault:
		if t.hadTrailingSlash && len(path) > 1 && !strings.HasSuffix(path, "/") {
			path += "/"
		}
	case TrailingSlashNever:
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
	case TrailingSlashAlways:
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
	}

	if !set.skipQuery {
		if query := BuildQueryString(params, t.queryParams, set.encoding); query != "" {
			path += "?" + query
		}
	}
	return path, nil
}

// lookupParamString resolves a required single-valued parameter.
func lookupParamString(params Params, name string) (string, bool) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", false
	}
	return paramString(v)
}

// lookupSplatString resolves a splat value, joining slices with "/".
func lookupSplatString(params Params, name string) (string, bool) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", false
	}
	if segs, ok := v.([]string); ok {
		return strings.Join(segs, "/"), true
	}
	return paramString(v)
}
