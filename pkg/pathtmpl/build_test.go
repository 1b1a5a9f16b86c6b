package pathtmpl

import (
	"errors"
	"sort"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		pattern string
		params  Params
		want    string
	}{
		{"/users", nil, "/users"},
		{"/users/:id", Params{"id": "42"}, "/users/42"},
		{"/users/:id", Params{"id": 42}, "/users/42"},
		{"/files/*rest", Params{"rest": "a/b/c"}, "/files/a/b/c"},
		{"/files/*rest", Params{"rest": []string{"a", "b"}}, "/files/a/b"},
		{"/users;sort", Params{"sort": "name"}, "/users;sort=name"},
		{"/search?q", Params{"q": "go"}, "/search?q=go"},
		{"/search?q", nil, "/search"},
		{"/search?tags", Params{"tags": []string{"a", "b"}}, "/search?tags=a&tags=b"},
		{"/search?debug", Params{"debug": true}, "/search?debug=true"},
		{"/users/:id?tab", Params{"id": "1", "tab": "posts"}, "/users/1?tab=posts"},
	}

	for _, tt := range tests {
		tpl := MustParse(tt.pattern)
		got, err := tpl.Build(tt.params)
		if err != nil {
			t.Errorf("Build(%q, %v) error: %v", tt.pattern, tt.params, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Build(%q, %v) = %q, want %q", tt.pattern, tt.params, got, tt.want)
		}
	}
}

func TestBuildMissingParams(t *testing.T) {
	tpl := MustParse("/users/:id/posts/:postId")
	_, err := tpl.Build(Params{})

	var missing *MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("Build error = %v, want *MissingParamsError", err)
	}

	got := append([]string(nil), missing.Params...)
	sort.Strings(got)
	want := []string{"id", "postId"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("missing params = %v, want %v", got, want)
	}
}

func TestBuildMissingSingleParam(t *testing.T) {
	tpl := MustParse("/users/:id")
	_, err := tpl.Build(Params{})

	var missing *MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("Build error = %v, want *MissingParamsError", err)
	}
	if len(missing.Params) != 1 || missing.Params[0] != "id" {
		t.Errorf("missing params = %v, want [id]", missing.Params)
	}
}

func TestBuildTrailingSlash(t *testing.T) {
	tests := []struct {
		pattern string
		mode    TrailingSlashMode
		want    string
	}{
		{"/users", TrailingSlashDefault, "/users"},
		{"/users/", TrailingSlashDefault, "/users/"},
		{"/users/", TrailingSlashNever, "/users"},
		{"/users", TrailingSlashAlways, "/users/"},
	}

	for _, tt := range tests {
		tpl := MustParse(tt.pattern, WithTrailingSlash(tt.mode))
		got, err := tpl.Build(nil)
		if err != nil {
			t.Fatalf("Build(%q) error: %v", tt.pattern, err)
		}
		if got != tt.want {
			t.Errorf("Build(%q, mode %d) = %q, want %q", tt.pattern, tt.mode, got, tt.want)
		}
	}
}

func TestBuildEncodesParams(t *testing.T) {
	tpl := MustParse("/users/:name")

	got, err := tpl.Build(Params{"name": "a b/c"})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	// Space and slash are encoded under the default mode.
	if got != "/users/a%20b%2Fc" {
		t.Errorf("Build = %q, want %q", got, "/users/a%20b%2Fc")
	}

	params, ok := tpl.Test(got)
	if !ok {
		t.Fatalf("Test(%q) did not match", got)
	}
	if params["name"] != "a b/c" {
		t.Errorf("decoded name = %v, want %q", params["name"], "a b/c")
	}
}

func TestBuildSplatKeepsSlashes(t *testing.T) {
	tpl := MustParse("/files/*rest")
	got, err := tpl.Build(Params{"rest": "docs/intro guide"})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got != "/files/docs/intro%20guide" {
		t.Errorf("Build = %q, want %q", got, "/files/docs/intro%20guide")
	}
}
