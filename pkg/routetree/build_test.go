package routetree

import (
	"errors"
	"testing"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
)

func TestBuildPath(t *testing.T) {
	tree := usersTree(t)

	tests := []struct {
		name   string
		params pathtmpl.Params
		want   string
	}{
		{"users", nil, "/users"},
		{"users.list", nil, "/users/list"},
		{"users.profile", pathtmpl.Params{"id": "42"}, "/users/42"},
		{"users.profile.edit", pathtmpl.Params{"id": "42"}, "/users/42/edit"},
	}

	for _, tt := range tests {
		got, err := tree.BuildPath(tt.name, tt.params)
		if err != nil {
			t.Errorf("BuildPath(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("BuildPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBuildPathUnknownRoute(t *testing.T) {
	tree := usersTree(t)
	_, err := tree.BuildPath("users.missing.leaf", nil)
	if !errors.Is(err, ErrRouteNotFound) {
		t.Errorf("BuildPath error = %v, want ErrRouteNotFound", err)
	}
}

func TestBuildPathMissingParams(t *testing.T) {
	tree := usersTree(t)
	_, err := tree.BuildPath("users.profile.view", nil)

	var missing *pathtmpl.MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("BuildPath error = %v, want *MissingParamsError", err)
	}
	if len(missing.Params) != 1 || missing.Params[0] != "id" {
		t.Errorf("missing = %v, want [id]", missing.Params)
	}
}

func TestBuildPathMergesQueryParams(t *testing.T) {
	tree := New()
	err := tree.Add(Definition{
		Name: "search",
		Path: "/search?q",
		Children: []Definition{
			{Name: "results", Path: "/results?page"},
		},
	}, nil, true)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	got, err := tree.BuildPath("search.results", pathtmpl.Params{"q": "go", "page": "2"})
	if err != nil {
		t.Fatalf("BuildPath error: %v", err)
	}
	if got != "/search/results?q=go&page=2" {
		t.Errorf("BuildPath = %q, want /search/results?q=go&page=2", got)
	}
}

func TestBuildPathAbsolute(t *testing.T) {
	tree := New()
	err := tree.Add(Definition{
		Name: "admin",
		Path: "/admin",
		Children: []Definition{
			{Name: "login", Path: "~/login"},
		},
	}, nil, true)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	got, err := tree.BuildPath("admin.login", nil)
	if err != nil {
		t.Fatalf("BuildPath error: %v", err)
	}
	if got != "/login" {
		t.Errorf("BuildPath(admin.login) = %q, want /login", got)
	}
}

func TestRawPath(t *testing.T) {
	tree := usersTree(t)

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"users.profile.view", "/users/:id/view", true},
		{"users", "/users", true},
		{"nope", "", false},
	}

	for _, tt := range tests {
		got, ok := tree.RawPath(tt.name)
		if ok != tt.wantOK {
			t.Errorf("RawPath(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("RawPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBuildState(t *testing.T) {
	tree := usersTree(t)

	m, ok := tree.BuildState("users.profile.view", pathtmpl.Params{"id": "42"})
	if !ok {
		t.Fatal("BuildState returned false")
	}
	if len(m.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(m.Segments))
	}
	if m.Meta["users.profile"]["id"] != "url" {
		t.Errorf(`meta origin of id = %q, want "url"`, m.Meta["users.profile"]["id"])
	}

	if _, ok := tree.BuildState("users.nope", nil); ok {
		t.Error("BuildState resolved an unknown name")
	}
}
