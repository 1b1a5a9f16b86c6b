package routesfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

const sampleYAML = `
options:
  trailingSlash: never
  queryParams: strict
  defaultRoute: home
routes:
  - name: home
    path: /
    title: Home
  - name: users
    path: /users
    children:
      - name: view
        path: /view/:id
        defaultParams:
          id: "0"
  - name: profile
    path: /profile
    forwardTo: users.view
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if f.Options.DefaultRoute != "home" || f.Options.TrailingSlash != "never" {
		t.Errorf("options = %+v", f.Options)
	}
	if len(f.Routes) != 3 {
		t.Fatalf("got %d routes, want 3", len(f.Routes))
	}
	if f.Routes[1].Children[0].Name != "view" {
		t.Errorf("children = %+v", f.Routes[1].Children)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "routes:\n  - name: a\n    path: /a\n    bogus: 1\n", "bogus"},
		{"missing name", "routes:\n  - path: /a\n", "no name"},
		{"missing path", "routes:\n  - name: a\n", "no path"},
		{"bad trailing slash", "options:\n  trailingSlash: sometimes\nroutes: []\n", "trailingSlash"},
		{"bad yaml", ":\n", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadAndBuildRouter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	r, err := f.Router()
	if err != nil {
		t.Fatalf("Router error: %v", err)
	}

	// Default params from the file apply.
	got, err := r.BuildPath("users.view", nil)
	if err != nil {
		t.Fatalf("BuildPath error: %v", err)
	}
	if got != "/users/view/0" {
		t.Errorf("BuildPath = %q, want /users/view/0", got)
	}

	// Forward declared in the file resolves.
	r.Start("/", func(rerr *router.Error, to, from *router.State) {
		if rerr != nil {
			t.Fatalf("Start error: %v", rerr)
		}
	})
	r.Navigate("profile", router.Params{"id": "3"}, router.NavigationOptions{},
		func(rerr *router.Error, to, from *router.State) {
			if rerr != nil {
				t.Fatalf("Navigate(profile) error: %v", rerr)
			}
			if to.Name != "users.view" || to.Path != "/users/view/3" {
				t.Errorf("forwarded to %q %q, want users.view /users/view/3", to.Name, to.Path)
			}
		})

	// Title from the file registers.
	if title := r.Title(r.GetState()); title != "Home" {
		t.Errorf("Title = %q, want Home", title)
	}
}
