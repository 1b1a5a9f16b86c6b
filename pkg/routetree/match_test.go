package routetree

import (
	"testing"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
)

func TestMatchPath(t *testing.T) {
	tree := usersTree(t)

	tests := []struct {
		path     string
		wantName string // "" means no match
		wantID   string
	}{
		{"/users", "users", ""},
		{"/users/list", "users.list", ""},
		{"/users/42", "users.profile", "42"},
		{"/users/42/view", "users.profile.view", "42"},
		{"/users/42/edit", "users.profile.edit", "42"},
		{"/posts/1", "", ""},
		{"/users/42/delete", "", ""},
	}

	for _, tt := range tests {
		m := tree.MatchPath(tt.path)
		if tt.wantName == "" {
			if m != nil {
				t.Errorf("MatchPath(%q) matched %q, want no match", tt.path, lastName(m))
			}
			continue
		}
		if m == nil {
			t.Errorf("MatchPath(%q) = nil, want %q", tt.path, tt.wantName)
			continue
		}
		if got := lastName(m); got != tt.wantName {
			t.Errorf("MatchPath(%q) = %q, want %q", tt.path, got, tt.wantName)
		}
		if tt.wantID != "" && m.Params["id"] != tt.wantID {
			t.Errorf("MatchPath(%q) id = %v, want %q", tt.path, m.Params["id"], tt.wantID)
		}
	}
}

func lastName(m *Match) string {
	return m.Segments[len(m.Segments)-1].FullName()
}

func TestMatchPathSingleRoute(t *testing.T) {
	tree := New()
	if err := tree.Add(Definition{Name: "users", Path: "/users/:id"}, nil, true); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if m := tree.MatchPath("/posts/1"); m != nil {
		t.Errorf("MatchPath(/posts/1) matched %q, want nil", lastName(m))
	}
}

func TestMatchPathSpecificityOrder(t *testing.T) {
	tree := New()
	defs := []Definition{
		{Name: "any", Path: "/*rest"},
		{Name: "detail", Path: "/:id"},
		{Name: "new", Path: "/new"},
	}
	for _, def := range defs {
		if err := tree.Add(def, nil, true); err != nil {
			t.Fatalf("Add error: %v", err)
		}
	}

	tests := []struct {
		path string
		want string
	}{
		{"/new", "new"},
		{"/42", "detail"},
		{"/a/b", "any"},
	}
	for _, tt := range tests {
		m := tree.MatchPath(tt.path)
		if m == nil {
			t.Errorf("MatchPath(%q) = nil", tt.path)
			continue
		}
		if got := lastName(m); got != tt.want {
			t.Errorf("MatchPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMatchPathQueryMeta(t *testing.T) {
	tree := New()
	err := tree.Add(Definition{
		Name: "search",
		Path: "/search?q",
		Children: []Definition{
			{Name: "results", Path: "/results/:page"},
		},
	}, nil, true)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m := tree.MatchPath("/search/results/2?q=go")
	if m == nil {
		t.Fatal("MatchPath returned nil")
	}
	if m.Params["q"] != "go" {
		t.Errorf("q = %v, want go", m.Params["q"])
	}
	if m.Params["page"] != "2" {
		t.Errorf("page = %v, want 2", m.Params["page"])
	}
	if m.Meta["search"]["q"] != "query" {
		t.Errorf(`meta origin of q = %q, want "query"`, m.Meta["search"]["q"])
	}
	if m.Meta["search.results"]["page"] != "url" {
		t.Errorf(`meta origin of page = %q, want "url"`, m.Meta["search.results"]["page"])
	}
}

func TestMatchPathStrictQueryMode(t *testing.T) {
	tree := New(WithQueryParamsMode(pathtmpl.QueryParamsStrict))
	if err := tree.Add(Definition{Name: "search", Path: "/search?q"}, nil, true); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	if m := tree.MatchPath("/search?q=go&extra=1"); m != nil {
		t.Error("strict mode matched with undeclared query param")
	}
	if m := tree.MatchPath("/search?q=go"); m == nil {
		t.Error("strict mode rejected declared query param")
	}
}

func TestMatchPathAbsoluteDescendant(t *testing.T) {
	tree := New()
	err := tree.Add(Definition{
		Name: "admin",
		Path: "/admin",
		Children: []Definition{
			{Name: "login", Path: "~/login"},
			{Name: "panel", Path: "/panel"},
		},
	}, nil, true)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m := tree.MatchPath("/login")
	if m == nil {
		t.Fatal("absolute descendant did not match /login")
	}
	if got := lastName(m); got != "admin.login" {
		t.Errorf("matched %q, want admin.login", got)
	}

	// The nested form must not match: absolute paths are not nested.
	if m := tree.MatchPath("/admin/login"); m != nil {
		t.Errorf("nested absolute path matched %q", lastName(m))
	}
	if m := tree.MatchPath("/admin/panel"); m == nil {
		t.Error("sibling non-absolute route stopped matching")
	}
}

func TestMatchPathNoBacktrackAcrossCommit(t *testing.T) {
	tree := New()
	err := tree.Add(Definition{
		Name: "a",
		Path: "/shop",
		Children: []Definition{
			{Name: "item", Path: "/:id"},
		},
	}, nil, true)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	// "b" would also accept /shop/... but sits after "a" at the same
	// level with an identical prefix only in spirit, not byte-wise.
	err = tree.Add(Definition{Name: "b", Path: "/shop-archive", Children: []Definition{
		{Name: "item", Path: "/:id"},
	}}, nil, true)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	m := tree.MatchPath("/shop/42")
	if m == nil || lastName(m) != "a.item" {
		t.Fatalf("MatchPath(/shop/42) = %v, want a.item", m)
	}
	m = tree.MatchPath("/shop-archive/42")
	if m == nil || lastName(m) != "b.item" {
		t.Fatalf("MatchPath(/shop-archive/42) = %v, want b.item", m)
	}
}

func TestMatchPathTrailingSlashModes(t *testing.T) {
	tests := []struct {
		mode pathtmpl.TrailingSlashMode
		path string
		want bool
	}{
		{pathtmpl.TrailingSlashDefault, "/users/", true},
		{pathtmpl.TrailingSlashNever, "/users/", false},
		{pathtmpl.TrailingSlashNever, "/users", true},
		{pathtmpl.TrailingSlashAlways, "/users", false},
		{pathtmpl.TrailingSlashAlways, "/users/", true},
	}

	for _, tt := range tests {
		tree := New(WithTrailingSlash(tt.mode))
		if err := tree.Add(Definition{Name: "users", Path: "/users"}, nil, true); err != nil {
			t.Fatalf("Add error: %v", err)
		}
		got := tree.MatchPath(tt.path) != nil
		if got != tt.want {
			t.Errorf("mode %d MatchPath(%q) = %v, want %v", tt.mode, tt.path, got, tt.want)
		}
	}
}
