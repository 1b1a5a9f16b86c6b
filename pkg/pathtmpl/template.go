package pathtmpl

import (
	"fmt"
	"regexp"
	"strings"
)

// TrailingSlashMode controls how trailing slashes are matched and built.
type TrailingSlashMode int

const (
	// TrailingSlashDefault accepts paths with or without a trailing slash
	// and builds whatever the pattern was written with.
	TrailingSlashDefault TrailingSlashMode = iota

	// TrailingSlashNever rejects trailing slashes on match and strips
	// them on build.
	TrailingSlashNever

	// TrailingSlashAlways requires a trailing slash on match and appends
	// one on build.
	TrailingSlashAlways
)

// QueryParamsMode controls how query parameters not declared by the
// pattern are treated on match.
type QueryParamsMode int

const (
	// QueryParamsDefault ignores undeclared query parameters.
	QueryParamsDefault QueryParamsMode = iota

	// QueryParamsStrict fails the match when undeclared query parameters
	// are present.
	QueryParamsStrict

	// QueryParamsLoose collects undeclared query parameters into the
	// returned params.
	QueryParamsLoose
)

// settings holds the tunable matching and building behavior.
type settings struct {
	trailingSlash TrailingSlashMode
	caseSensitive bool
	queryParams   QueryParamsMode
	encoding      Encoding
	skipQuery     bool
}

func defaultSettings() settings {
	return settings{}
}

// Option configures template compilation, matching or building.
type Option func(*settings)

// WithTrailingSlash sets the trailing slash mode.
func WithTrailingSlash(mode TrailingSlashMode) Option {
	return func(s *settings) { s.trailingSlash = mode }
}

// WithCaseSensitive makes literal matching case sensitive.
// Matching is case insensitive by default.
func WithCaseSensitive() Option {
	return func(s *settings) { s.caseSensitive = true }
}

// WithQueryParamsMode sets how undeclared query parameters are treated.
func WithQueryParamsMode(mode QueryParamsMode) Option {
	return func(s *settings) { s.queryParams = mode }
}

// WithEncoding sets the parameter encoding mode.
func WithEncoding(enc Encoding) Option {
	return func(s *settings) { s.encoding = enc }
}

// WithoutQueryParams makes Build skip the query declaration. Used when
// query parameters are assembled across several templates by the caller.
func WithoutQueryParams() Option {
	return func(s *settings) { s.skipQuery = true }
}

// Params maps parameter names to their values. Values are strings for URL
// and matrix parameters, strings or string slices for splat and query
// parameters, and bools for flag-style query parameters.
type Params map[string]any

// tokenKind identifies one compiled pattern token.
type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenParam             // :name
	tokenSplat             // *name
	tokenMatrix            // ;name
)

type token struct {
	kind tokenKind
	// value is the literal text, or the parameter name.
	value string
}

// Template is a compiled path pattern. It is immutable after Parse.
type Template struct {
	pattern     string
	tokens      []token
	queryParams []string

	// captures lists the parameter-bearing tokens in regex group order.
	captures []token

	hadTrailingSlash bool
	set              settings

	reFull    *regexp.Regexp
	reFullCI  *regexp.Regexp
	rePart    *regexp.Regexp
	rePartCI  *regexp.Regexp

	hasURLParams    bool
	hasSplatParam   bool
	hasMatrixParams bool
}

// Parse compiles a pattern into a Template.
//
// The pattern grammar is: literals, ":param", "*splat", ";matrix", with an
// optional "?a&b" query declaration tail. A "~" absolute marker, if any,
// must be stripped by the caller before parsing.
func Parse(pattern string, opts ...Option) (*Template, error) {
	set := defaultSettings()
	for _, opt := range opts {
		opt(&set)
	}

	pathPart, queryPart, hasQuery := strings.Cut(pattern, "?")

	t := &Template{
		pattern: pattern,
		set:     set,
	}

	if err := t.lexPath(pathPart); err != nil {
		return nil, err
	}
	if hasQuery {
		if err := t.lexQuery(queryPart); err != nil {
			return nil, err
		}
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	src := t.regexSource()
	var err error
	if t.reFull, err = regexp.Compile("^" + src + "$"); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPatternSyntax, pattern, err)
	}
	if t.reFullCI, err = regexp.Compile("(?i)^" + src + "$"); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPatternSyntax, pattern, err)
	}
	if t.rePart, err = regexp.Compile("^" + src); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPatternSyntax, pattern, err)
	}
	if t.rePartCI, err = regexp.Compile("(?i)^" + src); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrPatternSyntax, pattern, err)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for statically
// known patterns.
func MustParse(pattern string, opts ...Option) *Template {
	t, err := Parse(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// isNameChar reports whether c may appear in a parameter name.
func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

// lexPath tokenizes the non-query part of the pattern.
func (t *Template) lexPath(path string) error {
	// Trailing slash is handled by mode, not by the token stream.
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		t.hadTrailingSlash = true
		path = strings.TrimSuffix(path, "/")
	}

	i := 0
	for i < len(path) {
		switch path[i] {
		case ':', '*', ';':
			marker := path[i]
			i++
			start := i
			for i < len(path) && isNameChar(path[i]) {
				i++
			}
			name := path[start:i]
			if name == "" {
				return fmt.Errorf("%w after %q in %q", ErrEmptyParamName, string(marker), t.pattern)
			}
			kind := tokenParam
			switch marker {
			case '*':
				kind = tokenSplat
			case ';':
				kind = tokenMatrix
			}
			t.tokens = append(t.tokens, token{kind: kind, value: name})
		default:
			start := i
			for i < len(path) && path[i] != ':' && path[i] != '*' && path[i] != ';' {
				i++
			}
			t.tokens = append(t.tokens, token{kind: tokenLiteral, value: path[start:i]})
		}
	}
	return nil
}

// lexQuery tokenizes the "?a&b" query declaration tail.
func (t *Template) lexQuery(query string) error {
	for _, name := range strings.Split(query, "&") {
		name = strings.TrimPrefix(name, ":")
		if name == "" {
			return fmt.Errorf("%w in query of %q", ErrEmptyParamName, t.pattern)
		}
		t.queryParams = append(t.queryParams, name)
	}
	return nil
}

// validate checks parameter uniqueness, splat placement, and records the
// capture order and flags.
func (t *Template) validate() error {
	seen := make(map[string]struct{})
	sawSplat := false
	for _, tok := range t.tokens {
		if tok.kind == tokenLiteral {
			continue
		}
		if sawSplat {
			return fmt.Errorf("%w: %q", ErrSplatNotLast, t.pattern)
		}
		if _, dup := seen[tok.value]; dup {
			return fmt.Errorf("%w: %q in %q", ErrDuplicateParam, tok.value, t.pattern)
		}
		seen[tok.value] = struct{}{}
		t.captures = append(t.captures, tok)

		switch tok.kind {
		case tokenParam:
			t.hasURLParams = true
		case tokenSplat:
			t.hasSplatParam = true
			sawSplat = true
		case tokenMatrix:
			t.hasMatrixParams = true
		}
	}
	for _, name := range t.queryParams {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, t.pattern)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// regexSource builds the unanchored matching expression for the non-query
// part of the pattern.
func (t *Template) regexSource() string {
	var b strings.Builder
	for i, tok := range t.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(regexp.QuoteMeta(tok.value))
		case tokenParam:
			b.WriteString(`([^/;?&]+)`)
		case tokenMatrix:
			b.WriteString(`;` + regexp.QuoteMeta(tok.value) + `=([^/;?&]+)`)
		case tokenSplat:
			// A trailing splat consumes the remainder; a bounded one
			// stops at the next literal.
			if i == len(t.tokens)-1 {
				b.WriteString(`(.+)`)
			} else {
				b.WriteString(`(.+?)`)
			}
		}
	}
	return b.String()
}

// Pattern returns the raw pattern the template was compiled from.
func (t *Template) Pattern() string { return t.pattern }

// HasURLParams reports whether the pattern declares URL parameters.
func (t *Template) HasURLParams() bool { return t.hasURLParams }

// HasSplatParam reports whether the pattern declares a splat parameter.
func (t *Template) HasSplatParam() bool { return t.hasSplatParam }

// HasMatrixParams reports whether the pattern declares matrix parameters.
func (t *Template) HasMatrixParams() bool { return t.hasMatrixParams }

// HasQueryParams reports whether the pattern declares query parameters.
func (t *Template) HasQueryParams() bool { return t.queryParams != nil }

// HasParams reports whether the pattern declares any parameter at all.
func (t *Template) HasParams() bool {
	return t.hasURLParams || t.hasSplatParam || t.hasMatrixParams || t.HasQueryParams()
}

// URLParamNames returns the names of URL, matrix and splat parameters in
// declaration order.
func (t *Template) URLParamNames() []string {
	names := make([]string, 0, len(t.captures))
	for _, c := range t.captures {
		names = append(names, c.value)
	}
	return names
}

// QueryParamNames returns the declared query parameter names.
func (t *Template) QueryParamNames() []string {
	return append([]string(nil), t.queryParams...)
}

// regexFor picks the compiled expression for the given variant.
func (t *Template) regexFor(partial, caseSensitive bool) *regexp.Regexp {
	if partial {
		if caseSensitive {
			return t.rePart
		}
		return t.rePartCI
	}
	if caseSensitive {
		return t.reFull
	}
	return t.reFullCI
}

// Test matches path against the full pattern, query included. It returns
// the extracted params, or false when the path does not match.
func (t *Template) Test(path string, opts ...Option) (Params, bool) {
	set := t.set
	for _, opt := range opts {
		opt(&set)
	}

	pathPart, query, _ := strings.Cut(path, "?")

	hadTrailing := len(pathPart) > 1 && strings.HasSuffix(pathPart, "/")
	switch set.trailingSlash {
	case TrailingSlashNever:
		if hadTrailing {
			return nil, false
		}
	case TrailingSlashAlways:
		if !hadTrailing && pathPart != "/" {
			return nil, false
		}
	}
	if hadTrailing {
		pathPart = strings.TrimSuffix(pathPart, "/")
	}

	re := t.regexFor(false, set.caseSensitive)
	m := re.FindStringSubmatch(pathPart)
	if m == nil {
		return nil, false
	}

	params := t.captureParams(m[1:], set.encoding)

	qvals := ParseQueryString(query, set.encoding)
	declared := make(map[string]struct{}, len(t.queryParams))
	for _, name := range t.queryParams {
		declared[name] = struct{}{}
		if v, ok := qvals[name]; ok {
			params[name] = v
		}
	}
	if set.queryParams != QueryParamsDefault {
		for name, v := range qvals {
			if _, ok := declared[name]; ok {
				continue
			}
			if set.queryParams == QueryParamsStrict {
				return nil, false
			}
			params[name] = v
		}
	}
	return params, true
}

// PartialTest matches the pattern against a prefix of path, ignoring
// trailing content. It returns the extracted params and the number of
// path bytes consumed. The match must end on a segment boundary.
func (t *Template) PartialTest(path string, opts ...Option) (Params, int, bool) {
	set := t.set
	for _, opt := range opts {
		opt(&set)
	}

	pathPart, query, _ := strings.Cut(path, "?")

	re := t.regexFor(true, set.caseSensitive)
	loc := re.FindStringSubmatchIndex(pathPart)
	if loc == nil {
		return nil, 0, false
	}
	consumed := loc[1]
	if consumed < len(pathPart) && pathPart[consumed] != '/' {
		return nil, 0, false
	}

	groups := make([]string, 0, len(t.captures))
	for i := range t.captures {
		start, end := loc[2+2*i], loc[3+2*i]
		if start < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, pathPart[start:end])
	}
	params := t.captureParams(groups, set.encoding)

	// Declared query params are harvested when present; extra ones never
	// fail a partial match.
	if len(t.queryParams) > 0 && query != "" {
		qvals := ParseQueryString(query, set.encoding)
		for _, name := range t.queryParams {
			if v, ok := qvals[name]; ok {
				params[name] = v
			}
		}
	}
	return params, consumed, true
}

// captureParams decodes regex capture groups into params keyed by the
// capture order recorded at compile time.
func (t *Template) captureParams(groups []string, enc Encoding) Params {
	params := make(Params, len(groups))
	for i, c := range t.captures {
		raw := groups[i]
		if c.kind == tokenSplat {
			// Decode each splat segment separately so encoded
			// slashes survive inside segments.
			segs := strings.Split(raw, "/")
			for j, s := range segs {
				segs[j] = decodeValue(s, enc)
			}
			params[c.value] = strings.Join(segs, "/")
			continue
		}
		params[c.value] = decodeValue(raw, enc)
	}
	return params
}
