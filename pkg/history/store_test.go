package history

import (
	"context"
	"testing"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

func sampleState() *router.State {
	return &router.State{
		Name:   "users.view",
		Params: router.Params{"id": "42", "tags": []string{"a", "b"}, "draft": true},
		Path:   "/users/view/42?tags=a&tags=b&draft",
		Meta:   &router.Meta{Redirected: true, Source: "start"},
	}
}

func checkRestored(t *testing.T, got *router.State) {
	t.Helper()
	if got == nil {
		t.Fatalf("restored state is nil")
	}
	if got.Name != "users.view" || got.Path != "/users/view/42?tags=a&tags=b&draft" {
		t.Errorf("restored state = %q %q", got.Name, got.Path)
	}
	if got.Params["id"] != "42" || got.Params["draft"] != true {
		t.Errorf("restored params = %v", got.Params)
	}
	tags, ok := got.Params["tags"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("restored tags = %v, want [a b] as []string", got.Params["tags"])
	}
	if got.Meta == nil || !got.Meta.Redirected || got.Meta.Source != "start" {
		t.Errorf("restored meta = %+v", got.Meta)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(sampleState())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	checkRestored(t, got)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, "session-1", sampleState()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	checkRestored(t, got)

	if got, err := store.Load(ctx, "missing"); err != nil || got != nil {
		t.Errorf("Load(missing) = %v, %v, want nil, nil", got, err)
	}

	if err := store.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got, _ := store.Load(ctx, "session-1"); got != nil {
		t.Errorf("Load after Delete = %v, want nil", got)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := store.Save(ctx, "x", sampleState()); err != ErrStoreClosed {
		t.Errorf("Save after Close error = %v, want ErrStoreClosed", err)
	}
}

func TestRestoredStateStartsRouter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	r := newStartedRouter(t)
	nav(t, r, "users.view", router.Params{"id": "7"})
	if err := store.Save(ctx, "last", r.GetState()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	r.Stop()

	restored, err := store.Load(ctx, "last")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	r2, err2 := router.New([]router.Route{
		{Name: "home", Path: "/"},
		{Name: "users", Path: "/users", Children: []router.Route{
			{Name: "view", Path: "/view/:id"},
		}},
	})
	if err2 != nil {
		t.Fatalf("router.New error: %v", err2)
	}
	r2.StartWithState(restored, func(rerr *router.Error, to, from *router.State) {
		if rerr != nil {
			t.Fatalf("StartWithState error: %v", rerr)
		}
		if to.Name != "users.view" || to.Path != "/users/view/7" {
			t.Errorf("restored start state = %q %q", to.Name, to.Path)
		}
	})
}
