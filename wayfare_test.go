package wayfare

import "testing"

func TestFacadeRoundTrip(t *testing.T) {
	r, err := New([]Route{
		{Name: "home", Path: "/"},
		{Name: "orders", Path: "/orders", Children: []Route{
			{Name: "detail", Path: "/:id"},
		}},
	}, WithDefaultRoute("home", nil))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	r.Start("/orders/15", func(serr *Error, to, from *State) {
		if serr != nil {
			t.Fatalf("Start error: %v", serr)
		}
		if to.Name != "orders.detail" || to.Params["id"] != "15" {
			t.Errorf("start state = %q %v", to.Name, to.Params)
		}
	})

	path, err := r.BuildPath("orders.detail", Params{"id": "7"})
	if err != nil {
		t.Fatalf("BuildPath error: %v", err)
	}
	if path != "/orders/7" {
		t.Errorf("BuildPath = %q, want /orders/7", path)
	}

	r.Navigate("nowhere", nil, NavigationOptions{}, func(nerr *Error, to, from *State) {
		if nerr == nil || nerr.Code != CodeRouteNotFound {
			t.Errorf("error = %v, want %s", nerr, CodeRouteNotFound)
		}
	})
}
