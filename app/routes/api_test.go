package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nberchet/apothecary/app/controllers"
	"github.com/nberchet/apothecary/app/routes"
	"github.com/nberchet/apothecary/pkg/auth"
	"github.com/nberchet/apothecary/pkg/router"
)

func testDeps(tokens *auth.Service) routes.Deps {
	return routes.Deps{
		Auth:       controllers.NewAuthController(nil, "potion_session", false, 1<<20),
		Potions:    controllers.NewPotionController(nil, nil, 1<<20),
		Analytics:  controllers.NewAnalyticsController(nil, nil, 0),
		Tokens:     tokens,
		CookieName: "potion_session",
	}
}

func TestRegisterAPIRouteTable(t *testing.T) {
	r := router.New()
	routes.RegisterAPI(r, testDeps(auth.New("secret", auth.DefaultTTL)))

	mounted := r.Routes()

	expected := []router.RouteInfo{
		{Method: http.MethodPost, Path: "/auth/register", Name: "auth.register"},
		{Method: http.MethodPost, Path: "/auth/login", Name: "auth.login"},
		{Method: http.MethodGet, Path: "/auth/logout", Name: "auth.logout"},
		{Method: http.MethodGet, Path: "/potions", Name: "potions.list"},
		{Method: http.MethodGet, Path: "/potions/names", Name: "potions.names"},
		{Method: http.MethodGet, Path: "/potions/price-range", Name: "potions.price_range"},
		{Method: http.MethodGet, Path: "/potions/vendor/{vendor_id}", Name: "potions.by_vendor"},
		{Method: http.MethodGet, Path: "/potions/analytics/distinct-categories", Name: "analytics.distinct_categories"},
		{Method: http.MethodGet, Path: "/potions/analytics/strength-flavor-ratio", Name: "analytics.ratio"},
		{Method: http.MethodGet, Path: "/potions/analytics/search", Name: "analytics.search"},
		{Method: http.MethodPost, Path: "/potions", Name: "potions.create"},
		{Method: http.MethodPut, Path: "/potions/{id}", Name: "potions.update"},
		{Method: http.MethodDelete, Path: "/potions/{id}", Name: "potions.delete"},
		{Method: http.MethodGet, Path: "/potions/{id}", Name: "potions.get"},
	}
	for _, want := range expected {
		assert.Contains(t, mounted, want)
	}
	for _, info := range mounted {
		assert.NotEqual(t, "graphql", info.Name, "graphql mount is optional")
	}
}

func TestRegisterAPIMountsGraphQLWhenGiven(t *testing.T) {
	r := router.New()
	d := testDeps(auth.New("secret", auth.DefaultTTL))
	d.GraphQL = func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }
	routes.RegisterAPI(r, d)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCreateRequiresSession(t *testing.T) {
	r := router.New()
	routes.RegisterAPI(r, testDeps(auth.New("secret", auth.DefaultTTL)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/potions", strings.NewReader(`{}`))
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token d’authentification manquant ou invalide")
}

func TestCreatePassesGateWithValidSession(t *testing.T) {
	tokens := auth.New("secret", auth.DefaultTTL)
	token, err := tokens.Issue("64f1c2e8a1b2c3d4e5f60718", "merlin")
	require.NoError(t, err)

	r := router.New()
	routes.RegisterAPI(r, testDeps(tokens))

	// A malformed body proves the gate let the request through to the
	// handler, which rejects it before touching the store.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/potions", strings.NewReader(`not json`))
	req.AddCookie(&http.Cookie{Name: "potion_session", Value: token})
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Requête invalide"}`, rec.Body.String())
}

func TestUpdateIsPublic(t *testing.T) {
	r := router.New()
	routes.RegisterAPI(r, testDeps(auth.New("secret", auth.DefaultTTL)))

	// No cookie: a guarded route would answer 401 before the handler.
	// The update handler instead rejects the malformed body itself.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/potions/abc", strings.NewReader(`not json`))
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Requête invalide"}`, rec.Body.String())
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	routes.RegisterAPI(r, testDeps(auth.New("secret", auth.DefaultTTL)))

	url, err := r.URL("potions.get", map[string]string{"id": "64f1c2e8a1b2c3d4e5f60718"})
	require.NoError(t, err)
	assert.Equal(t, "/potions/64f1c2e8a1b2c3d4e5f60718", url)

	_, err = r.URL("potions.get", nil)
	assert.Error(t, err, "missing parameter must be reported")
}
