package controllers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/pkg/bind"
	"github.com/nberchet/apothecary/pkg/cache"
	"github.com/nberchet/apothecary/pkg/logger"
	"github.com/nberchet/apothecary/pkg/response"
)

// AnalyticsCachePrefix namespaces the cached analytics responses in Redis.
const AnalyticsCachePrefix = "apothecary:analytics:"

// PotionController serves the CRUD and listing routes under /potions.
type PotionController struct {
	repo         *repositories.PotionRepository
	cache        *cache.Cache
	maxBodyBytes int64
}

func NewPotionController(repo *repositories.PotionRepository, c *cache.Cache, maxBodyBytes int64) *PotionController {
	return &PotionController{repo: repo, cache: c, maxBodyBytes: maxBodyBytes}
}

// List returns the full catalog.
func (c *PotionController) List(w http.ResponseWriter, r *http.Request) {
	potions, err := c.repo.All(r.Context())
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, potions)
}

// Names returns every potion name.
func (c *PotionController) Names(w http.ResponseWriter, r *http.Request) {
	names, err := c.repo.Names(r.Context())
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, names)
}

// PriceRange returns the potions within [min, max], sorted by price.
// Both bounds must parse as finite numbers.
func (c *PotionController) PriceRange(w http.ResponseWriter, r *http.Request) {
	min, errMin := strconv.ParseFloat(r.URL.Query().Get("min"), 64)
	max, errMax := strconv.ParseFloat(r.URL.Query().Get("max"), 64)

	if errMin != nil || errMax != nil ||
		math.IsNaN(min) || math.IsInf(min, 0) ||
		math.IsNaN(max) || math.IsInf(max, 0) {
		response.Err(w, http.StatusBadRequest, "Les prix doivent être des nombres valides")
		return
	}

	potions, err := c.repo.PriceRange(r.Context(), min, max)
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"potions": potions})
}

// Get returns one potion by id.
func (c *PotionController) Get(w http.ResponseWriter, r *http.Request) {
	potion, err := c.repo.ByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.Err(w, http.StatusNotFound, "Potion not found")
		return
	}
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, potion)
}

// ByVendor lists a vendor's potions. An empty result is reported as 404:
// with no vendor collection, "unknown vendor" and "zero potions" are the
// same observation here.
func (c *PotionController) ByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendor_id")
	if vendorID == "" {
		response.Err(w, http.StatusBadRequest, "ID du vendeur requis")
		return
	}

	potions, err := c.repo.ByVendor(r.Context(), vendorID)
	if errors.Is(err, repositories.ErrNotFound) {
		response.JSON(w, http.StatusNotFound, map[string]string{
			"message": "Aucune potion trouvée pour ce vendeur",
		})
		return
	}
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, potions)
}

// Create inserts a new potion. The route sits behind the auth gate.
func (c *PotionController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.Potion

	errs, err := bind.JSON(r, &in, c.maxBodyBytes)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if len(errs) > 0 {
		response.ValidationErrors(w, fieldErrors(errs))
		return
	}

	created, err := c.repo.Create(r.Context(), &in)
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	c.invalidateAnalytics(r.Context())
	response.JSON(w, http.StatusCreated, created)
}

// Update writes the fields present in the body. A partial body is the
// norm: omitted fields keep their stored values.
func (c *PotionController) Update(w http.ResponseWriter, r *http.Request) {
	var in models.PotionUpdate

	if _, err := bind.JSON(r, &in, c.maxBodyBytes); err != nil {
		response.Err(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	updated, err := c.repo.Update(r.Context(), chi.URLParam(r, "id"), &in)
	if errors.Is(err, repositories.ErrNotFound) {
		response.Err(w, http.StatusNotFound, "Potion not found")
		return
	}
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	c.invalidateAnalytics(r.Context())
	response.JSON(w, http.StatusOK, updated)
}

// Delete removes a potion.
func (c *PotionController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.Err(w, http.StatusNotFound, "Potion not found")
		return
	}
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	c.invalidateAnalytics(r.Context())
	response.Message(w, http.StatusOK, "Potion deleted successfully")
}

// storeError logs the real failure and answers with a stable message.
func (c *PotionController) storeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithCtx(r.Context()).Error("catalog store failure", "error", err)
	response.Err(w, http.StatusInternalServerError, "Erreur serveur")
}

func (c *PotionController) invalidateAnalytics(ctx context.Context) {
	if err := c.cache.DelPrefix(ctx, AnalyticsCachePrefix); err != nil {
		logger.Warn("analytics cache invalidation failed", "error", err)
	}
}
