package pathtmpl

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		pattern   string
		urlParams bool
		splat     bool
		matrix    bool
		query     bool
	}{
		{"/users", false, false, false, false},
		{"/users/:id", true, false, false, false},
		{"/files/*rest", false, true, false, false},
		{"/users;sort", false, false, true, false},
		{"/search?q&page", false, false, false, true},
		{"/users/:id;view?tab", true, false, true, true},
	}

	for _, tt := range tests {
		tpl, err := Parse(tt.pattern)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.pattern, err)
		}
		if tpl.HasURLParams() != tt.urlParams {
			t.Errorf("%q HasURLParams = %v, want %v", tt.pattern, tpl.HasURLParams(), tt.urlParams)
		}
		if tpl.HasSplatParam() != tt.splat {
			t.Errorf("%q HasSplatParam = %v, want %v", tt.pattern, tpl.HasSplatParam(), tt.splat)
		}
		if tpl.HasMatrixParams() != tt.matrix {
			t.Errorf("%q HasMatrixParams = %v, want %v", tt.pattern, tpl.HasMatrixParams(), tt.matrix)
		}
		if tpl.HasQueryParams() != tt.query {
			t.Errorf("%q HasQueryParams = %v, want %v", tt.pattern, tpl.HasQueryParams(), tt.query)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"/users/:", ErrEmptyParamName},
		{"/files/*", ErrEmptyParamName},
		{"/users;", ErrEmptyParamName},
		{"/users/:id/:id", ErrDuplicateParam},
		{"/users/:id?id", ErrDuplicateParam},
		{"/files/*rest/:id", ErrSplatNotLast},
		{"/search?q&", ErrEmptyParamName},
	}

	for _, tt := range tests {
		_, err := Parse(tt.pattern)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.pattern, err, tt.want)
		}
	}
}

func TestTest(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    Params // nil means no match
	}{
		{"/users", "/users", Params{}},
		{"/users", "/Users", Params{}}, // case insensitive by default
		{"/users", "/posts", nil},
		{"/users/:id", "/users/42", Params{"id": "42"}},
		{"/users/:id", "/users/42/edit", nil},
		{"/users/:id", "/posts/1", nil},
		{"/users/:id/edit", "/users/42/edit", Params{"id": "42"}},
		{"/files/*rest", "/files/a/b/c", Params{"rest": "a/b/c"}},
		{"/files/*rest", "/files/", nil},
		{"/users;sort", "/users;sort=name", Params{"sort": "name"}},
		{"/users;sort", "/users", nil},
		{"/search?q", "/search?q=go", Params{"q": "go"}},
		{"/search?q", "/search", Params{}},
		{"/search?tags", "/search?tags=a&tags=b", Params{"tags": []string{"a", "b"}}},
		{"/search?debug", "/search?debug", Params{"debug": true}},
	}

	for _, tt := range tests {
		tpl := MustParse(tt.pattern)
		params, ok := tpl.Test(tt.path)
		if tt.want == nil {
			if ok {
				t.Errorf("Test(%q, %q) matched %v, want no match", tt.pattern, tt.path, params)
			}
			continue
		}
		if !ok {
			t.Errorf("Test(%q, %q) did not match", tt.pattern, tt.path)
			continue
		}
		for key, want := range tt.want {
			if want == nil {
				continue
			}
			if got := params[key]; !reflect.DeepEqual(got, want) {
				t.Errorf("Test(%q, %q)[%q] = %v, want %v", tt.pattern, tt.path, key, got, want)
			}
		}
	}
}

func TestTestCaseSensitive(t *testing.T) {
	tpl := MustParse("/Users", WithCaseSensitive())
	if _, ok := tpl.Test("/users"); ok {
		t.Error("case sensitive template matched differently cased path")
	}
	if _, ok := tpl.Test("/Users"); !ok {
		t.Error("case sensitive template did not match identical path")
	}
}

func TestTestTrailingSlash(t *testing.T) {
	tests := []struct {
		mode TrailingSlashMode
		path string
		want bool
	}{
		{TrailingSlashDefault, "/users", true},
		{TrailingSlashDefault, "/users/", true},
		{TrailingSlashNever, "/users", true},
		{TrailingSlashNever, "/users/", false},
		{TrailingSlashAlways, "/users", false},
		{TrailingSlashAlways, "/users/", true},
	}

	for _, tt := range tests {
		tpl := MustParse("/users", WithTrailingSlash(tt.mode))
		_, ok := tpl.Test(tt.path)
		if ok != tt.want {
			t.Errorf("mode %d Test(%q) = %v, want %v", tt.mode, tt.path, ok, tt.want)
		}
	}
}

func TestTestQueryParamsModes(t *testing.T) {
	tests := []struct {
		mode      QueryParamsMode
		path      string
		wantMatch bool
		wantExtra bool // whether "extra" ends up in params
	}{
		{QueryParamsDefault, "/search?q=go&extra=1", true, false},
		{QueryParamsStrict, "/search?q=go&extra=1", false, false},
		{QueryParamsStrict, "/search?q=go", true, false},
		{QueryParamsLoose, "/search?q=go&extra=1", true, true},
	}

	for _, tt := range tests {
		tpl := MustParse("/search?q", WithQueryParamsMode(tt.mode))
		params, ok := tpl.Test(tt.path)
		if ok != tt.wantMatch {
			t.Errorf("mode %d Test(%q) = %v, want %v", tt.mode, tt.path, ok, tt.wantMatch)
			continue
		}
		if !ok {
			continue
		}
		_, hasExtra := params["extra"]
		if hasExtra != tt.wantExtra {
			t.Errorf("mode %d extra param present = %v, want %v", tt.mode, hasExtra, tt.wantExtra)
		}
	}
}

func TestPartialTest(t *testing.T) {
	tests := []struct {
		pattern      string
		path         string
		wantConsumed int
		wantOK       bool
	}{
		{"/users", "/users/42", 6, true},
		{"/users", "/users", 6, true},
		{"/users", "/users-admin", 0, false},
		{"/users/:id", "/users/42/edit", 9, true},
		{"/users", "/posts/1", 0, false},
	}

	for _, tt := range tests {
		tpl := MustParse(tt.pattern)
		_, consumed, ok := tpl.PartialTest(tt.path)
		if ok != tt.wantOK {
			t.Errorf("PartialTest(%q, %q) ok = %v, want %v", tt.pattern, tt.path, ok, tt.wantOK)
			continue
		}
		if ok && consumed != tt.wantConsumed {
			t.Errorf("PartialTest(%q, %q) consumed = %d, want %d", tt.pattern, tt.path, consumed, tt.wantConsumed)
		}
	}
}

func TestPartialTestParams(t *testing.T) {
	tpl := MustParse("/users/:id")
	params, _, ok := tpl.PartialTest("/users/42/edit")
	if !ok {
		t.Fatal("PartialTest did not match")
	}
	if params["id"] != "42" {
		t.Errorf("id = %v, want 42", params["id"])
	}
}

func TestRoundTrip(t *testing.T) {
	// build(test(p)) reproduces p for unambiguous templates.
	tests := []struct {
		pattern string
		path    string
	}{
		{"/users/:id", "/users/42"},
		{"/files/*rest", "/files/a/b/c"},
		{"/users;sort", "/users;sort=name"},
		{"/search?q", "/search?q=go"},
		{"/search?tags", "/search?tags=a&tags=b"},
		{"/users/:id/posts/:postId", "/users/1/posts/2"},
	}

	for _, tt := range tests {
		tpl := MustParse(tt.pattern)
		params, ok := tpl.Test(tt.path)
		if !ok {
			t.Errorf("Test(%q, %q) did not match", tt.pattern, tt.path)
			continue
		}
		built, err := tpl.Build(params)
		if err != nil {
			t.Errorf("Build(%q) error: %v", tt.pattern, err)
			continue
		}
		if built != tt.path {
			t.Errorf("round trip %q: built %q, want %q", tt.pattern, built, tt.path)
		}
	}
}
