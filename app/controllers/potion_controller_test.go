package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nberchet/apothecary/app/controllers"
)

func TestPriceRangeRejectsInvalidBounds(t *testing.T) {
	// Parameter validation runs before the store is touched.
	c := controllers.NewPotionController(nil, nil, 1<<20)

	cases := []string{
		"/potions/price-range",
		"/potions/price-range?min=abc&max=10",
		"/potions/price-range?min=1&max=",
		"/potions/price-range?min=NaN&max=10",
		"/potions/price-range?min=1&max=Inf",
		"/potions/price-range?min=-Inf&max=10",
	}
	for _, url := range cases {
		rec := httptest.NewRecorder()
		c.PriceRange(rec, httptest.NewRequest(http.MethodGet, url, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "url %s", url)
		assert.JSONEq(t, `{"error":"Les prix doivent être des nombres valides"}`, rec.Body.String())
	}
}

func TestByVendorRequiresID(t *testing.T) {
	c := controllers.NewPotionController(nil, nil, 1<<20)

	// Called outside a chi route the vendor_id param is empty.
	rec := httptest.NewRecorder()
	c.ByVendor(rec, httptest.NewRequest(http.MethodGet, "/potions/vendor/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"ID du vendeur requis"}`, rec.Body.String())
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	c := controllers.NewPotionController(nil, nil, 1<<20)

	rec := httptest.NewRecorder()
	c.Create(rec, postJSON("/potions", `not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Requête invalide"}`, rec.Body.String())
}

func TestCreateReportsFieldViolations(t *testing.T) {
	c := controllers.NewPotionController(nil, nil, 1<<20)

	rec := httptest.NewRecorder()
	c.Create(rec, postJSON("/potions", `{"price":3.5}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
	assert.Contains(t, rec.Body.String(), "name")
	assert.Contains(t, rec.Body.String(), "effect")
}

func TestUpdateAcceptsPartialBody(t *testing.T) {
	c := controllers.NewPotionController(nil, nil, 1<<20)

	// A body carrying a single field is valid: update is partial, so no
	// field is required. Outside a chi route the id is empty, which the
	// store reports as not found — the point is that binding does not
	// answer 400.
	rec := httptest.NewRecorder()
	c.Update(rec, postJSON("/potions/abc", `{"price":50}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Potion not found"}`, rec.Body.String())
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	c := controllers.NewPotionController(nil, nil, 1<<20)

	rec := httptest.NewRecorder()
	c.Update(rec, postJSON("/potions/abc", `not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Requête invalide"}`, rec.Body.String())
}

func TestAnalyticsSearchRejectsUnknownParams(t *testing.T) {
	c := controllers.NewAnalyticsController(nil, nil, 0)

	cases := []struct {
		url  string
		want string
	}{
		{"/potions/analytics/search", "Critère de groupement invalide"},
		{"/potions/analytics/search?groupBy=name", "Critère de groupement invalide"},
		{"/potions/analytics/search?groupBy=vendor", "Métrique invalide"},
		{"/potions/analytics/search?groupBy=vendor&metric=median", "Métrique invalide"},
		{"/potions/analytics/search?groupBy=vendor&metric=avg", "Champ d'agrégation invalide"},
		{"/potions/analytics/search?groupBy=vendor&metric=avg&field=$price", "Champ d'agrégation invalide"},
	}
	for _, c2 := range cases {
		rec := httptest.NewRecorder()
		c.Search(rec, httptest.NewRequest(http.MethodGet, c2.url, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "url %s", c2.url)
		assert.Contains(t, rec.Body.String(), c2.want)
	}
}
