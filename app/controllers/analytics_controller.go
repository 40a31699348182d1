package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/pkg/cache"
	"github.com/nberchet/apothecary/pkg/logger"
	"github.com/nberchet/apothecary/pkg/response"
)

// AnalyticsController serves the aggregation routes under
// /potions/analytics. Responses are cached in Redis for a short TTL and
// invalidated by the mutating potion routes.
type AnalyticsController struct {
	repo     *repositories.PotionRepository
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewAnalyticsController(repo *repositories.PotionRepository, c *cache.Cache, ttl time.Duration) *AnalyticsController {
	return &AnalyticsController{repo: repo, cache: c, cacheTTL: ttl}
}

// DistinctCategories returns the number of unique category values across
// the whole catalog.
func (c *AnalyticsController) DistinctCategories(w http.ResponseWriter, r *http.Request) {
	key := AnalyticsCachePrefix + "distinct-categories"

	var cached repositories.CategoryCount
	if c.cache.Get(r.Context(), key, &cached) {
		response.JSON(w, http.StatusOK, cached)
		return
	}

	count, err := c.repo.DistinctCategories(r.Context())
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	c.put(r, key, count)
	response.JSON(w, http.StatusOK, count)
}

// StrengthFlavorRatio returns ratings.strength / ratings.flavor per
// potion, with 0 substituted for a zero flavor.
func (c *AnalyticsController) StrengthFlavorRatio(w http.ResponseWriter, r *http.Request) {
	key := AnalyticsCachePrefix + "strength-flavor-ratio"

	var cached []repositories.PotionRatio
	if c.cache.Get(r.Context(), key, &cached) {
		response.JSON(w, http.StatusOK, cached)
		return
	}

	ratios, err := c.repo.StrengthFlavorRatios(r.Context())
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	c.put(r, key, ratios)
	response.JSON(w, http.StatusOK, ratios)
}

// Search groups the catalog by vendor or category and aggregates the
// requested field. Each parameter is checked against its closed set
// before any pipeline is built.
func (c *AnalyticsController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	groupBy, err := repositories.ParseGroupBy(q.Get("groupBy"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "Critère de groupement invalide")
		return
	}
	metric, err := repositories.ParseMetric(q.Get("metric"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "Métrique invalide")
		return
	}
	field, err := repositories.ParseMetricField(q.Get("field"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "Champ d'agrégation invalide")
		return
	}

	key := fmt.Sprintf("%ssearch:%s:%s:%s",
		AnalyticsCachePrefix, q.Get("groupBy"), q.Get("metric"), q.Get("field"))

	var cached []repositories.GroupResult
	if c.cache.Get(r.Context(), key, &cached) {
		response.JSON(w, http.StatusOK, cached)
		return
	}

	results, err := c.repo.GroupedSearch(r.Context(), groupBy, metric, field)
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	c.put(r, key, results)
	response.JSON(w, http.StatusOK, results)
}

func (c *AnalyticsController) put(r *http.Request, key string, v interface{}) {
	if err := c.cache.Set(r.Context(), key, v, c.cacheTTL); err != nil {
		logger.WithCtx(r.Context()).Warn("analytics cache write failed", "key", key, "error", err)
	}
}

func (c *AnalyticsController) storeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithCtx(r.Context()).Error("analytics aggregation failure", "error", err)
	response.Err(w, http.StatusInternalServerError, "Erreur serveur")
}
