// Package routes mounts the HTTP surface and declares, per mutating
// route, whether a session is required.
package routes

import (
	"net/http"

	"github.com/nberchet/apothecary/app/controllers"
	"github.com/nberchet/apothecary/pkg/auth"
	"github.com/nberchet/apothecary/pkg/middleware"
	"github.com/nberchet/apothecary/pkg/router"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth      *controllers.AuthController
	Potions   *controllers.PotionController
	Analytics *controllers.AnalyticsController
	Tokens    *auth.Service
	// CookieName is the session cookie the auth gate reads.
	CookieName string
	// GraphQL is the optional /graphql handler; nil skips the mount.
	GraphQL http.HandlerFunc
}

type policy int

const (
	public policy = iota
	sessionRequired
)

// routePolicy names the authorization stance of each mutating catalog
// route. Only creation demands a session; PUT and DELETE stay public.
// That asymmetry is inherited from the upstream API contract; flipping a
// route is a one-line change here.
var routePolicy = map[string]policy{
	"POST /potions":        sessionRequired,
	"PUT /potions/{id}":    public,
	"DELETE /potions/{id}": public,
}

// RegisterAPI mounts every route on r.
func RegisterAPI(r *router.Router, d Deps) {
	gate := middleware.Auth(d.Tokens, d.CookieName)

	guard := func(route string) []router.Middleware {
		if routePolicy[route] == sessionRequired {
			return []router.Middleware{gate}
		}
		return nil
	}

	authGroup := r.Group("/auth")
	authGroup.Post("/register", "auth.register", d.Auth.Register)
	authGroup.Post("/login", "auth.login", d.Auth.Login)
	authGroup.Get("/logout", "auth.logout", d.Auth.Logout)

	potions := r.Group("/potions")
	potions.Get("/", "potions.list", d.Potions.List)
	potions.Get("/names", "potions.names", d.Potions.Names)
	potions.Get("/price-range", "potions.price_range", d.Potions.PriceRange)
	potions.Get("/vendor/{vendor_id}", "potions.by_vendor", d.Potions.ByVendor)

	potions.Get("/analytics/distinct-categories", "analytics.distinct_categories", d.Analytics.DistinctCategories)
	potions.Get("/analytics/strength-flavor-ratio", "analytics.ratio", d.Analytics.StrengthFlavorRatio)
	potions.Get("/analytics/search", "analytics.search", d.Analytics.Search)

	potions.Post("/", "potions.create", d.Potions.Create, guard("POST /potions")...)
	potions.Put("/{id}", "potions.update", d.Potions.Update, guard("PUT /potions/{id}")...)
	potions.Delete("/{id}", "potions.delete", d.Potions.Delete, guard("DELETE /potions/{id}")...)

	// Mounted last: chi matches the static segments above before the id.
	potions.Get("/{id}", "potions.get", d.Potions.Get)

	if d.GraphQL != nil {
		r.Post("/graphql", "graphql", d.GraphQL)
	}
}
