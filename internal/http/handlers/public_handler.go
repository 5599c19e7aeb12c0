package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jetfood/internal/modules/catalog"
)

// PublicHandler serves the unauthenticated marketplace browse surface.
type PublicHandler struct {
	catalog *catalog.Service
}

func NewPublicHandler(cat *catalog.Service) *PublicHandler {
	return &PublicHandler{catalog: cat}
}

func (h *PublicHandler) ListRestaurants(c *gin.Context) {
	rs, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewRestaurants(rs))
}

func (h *PublicHandler) GetRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.catalog.RestaurantByID(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if !r.IsActive || !r.IsApproved {
		writeError(c, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}
	writeJSON(c, http.StatusOK, viewRestaurant(r))
}

func (h *PublicHandler) Menu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	dishes, err := h.catalog.Menu(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewDishes(dishes))
}

func (h *PublicHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cats)
}
