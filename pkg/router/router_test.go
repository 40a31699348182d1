package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestJoinPath(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{""}, "/"},
		{[]string{"/"}, "/"},
		{[]string{"/potions", "/"}, "/potions"},
		{[]string{"/potions/", "/names"}, "/potions/names"},
		{[]string{"potions", "vendor/{vendor_id}"}, "/potions/vendor/{vendor_id}"},
	}
	for _, c := range cases {
		if got := joinPath(c.parts...); got != c.want {
			t.Errorf("joinPath(%v) = %q, want %q", c.parts, got, c.want)
		}
	}
}

func TestGroupNesting(t *testing.T) {
	r := New()
	api := r.Group("/api")
	v1 := api.Group("/v1")
	v1.Get("/ping", "ping", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	path, found := r.Path("ping")
	if !found || path != "/api/v1/ping" {
		t.Fatalf("Path(ping) = %q, %v", path, found)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(label string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, label)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	g := r.Group("/g", mw("group"))
	g.Get("/x", "x", ok, mw("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/g/x", nil))

	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Fatalf("order = %v", order)
	}
}

func TestURL(t *testing.T) {
	r := New()
	r.Get("/potions/{id}", "potions.get", ok)

	url, err := r.URL("potions.get", map[string]string{"id": "42"})
	if err != nil || url != "/potions/42" {
		t.Fatalf("URL = %q, err = %v", url, err)
	}

	if _, err := r.URL("potions.get", nil); err == nil {
		t.Fatal("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Fatal("expected error for unknown route")
	}
}

func TestRoutesSnapshot(t *testing.T) {
	r := New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)

	routes := r.Routes()
	if len(routes) != 2 {
		t.Fatalf("len = %d", len(routes))
	}
	if routes[0] != (RouteInfo{Method: http.MethodGet, Path: "/a", Name: "a"}) {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[1] != (RouteInfo{Method: http.MethodPost, Path: "/b", Name: "b"}) {
		t.Errorf("routes[1] = %+v", routes[1])
	}
}
