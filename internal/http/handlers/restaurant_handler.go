package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jetfood/internal/http/middleware"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/order"
	"jetfood/internal/types"
)

// RestaurantHandler serves restaurant owners: their profile, menu, and the
// kitchen side of the order flow.
type RestaurantHandler struct {
	catalog *catalog.Service
	orders  *order.Service
}

func NewRestaurantHandler(cat *catalog.Service, orders *order.Service) *RestaurantHandler {
	return &RestaurantHandler{catalog: cat, orders: orders}
}

type restaurantProfileReq struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	var req restaurantProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r := &catalog.Restaurant{
		OwnerID:     middleware.CallerID(c),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
	}
	if req.Lat != nil && req.Lng != nil {
		r.Location = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}
	id, err := h.catalog.CreateRestaurant(c.Request.Context(), r)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"restaurant_id": id})
}

func (h *RestaurantHandler) Me(c *gin.Context) {
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewRestaurant(r))
}

func (h *RestaurantHandler) UpdateProfile(c *gin.Context) {
	var req restaurantProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	r.Name = req.Name
	r.Description = req.Description
	r.Address = req.Address
	if req.Lat != nil && req.Lng != nil {
		r.Location = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}
	if err := h.catalog.UpdateProfile(c.Request.Context(), r); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewRestaurant(r))
}

type setActiveReq struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive toggles whether the restaurant is accepting orders.
func (h *RestaurantHandler) SetActive(c *gin.Context) {
	var req setActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if err := h.catalog.SetActive(c.Request.Context(), r.ID, *req.Active); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active": *req.Active})
}

type dishReq struct {
	CategoryID  int64           `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	IsAvailable *bool           `json:"is_available"`
}

func (h *RestaurantHandler) CreateDish(c *gin.Context) {
	var req dishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	d := &catalog.Dish{
		RestaurantID: r.ID,
		CategoryID:   types.ID(req.CategoryID),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		IsAvailable:  true,
	}
	if req.IsAvailable != nil {
		d.IsAvailable = *req.IsAvailable
	}
	id, err := h.catalog.CreateDish(c.Request.Context(), d)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"dish_id": id})
}

func (h *RestaurantHandler) MyMenu(c *gin.Context) {
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	dishes, err := h.catalog.Menu(c.Request.Context(), r.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewDishes(dishes))
}

func (h *RestaurantHandler) UpdateDish(c *gin.Context) {
	dishID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	d := &catalog.Dish{
		ID:           dishID,
		RestaurantID: r.ID,
		CategoryID:   types.ID(req.CategoryID),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		IsAvailable:  true,
	}
	if req.IsAvailable != nil {
		d.IsAvailable = *req.IsAvailable
	}
	if err := h.catalog.UpdateDish(c.Request.Context(), d); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewDish(d))
}

func (h *RestaurantHandler) DeleteDish(c *gin.Context) {
	dishID, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.catalog.MyRestaurant(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if err := h.catalog.DeleteDish(c.Request.Context(), dishID, r.ID); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *RestaurantHandler) Orders(c *gin.Context) {
	orders, err := h.orders.RestaurantOrders(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOrders(orders))
}

type acceptOrderReq struct {
	DeliveryType string `json:"delivery_type" binding:"required"`
	PrepMinutes  int    `json:"prep_minutes" binding:"required"`
}

func (h *RestaurantHandler) AcceptOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req acceptOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.orders.Accept(c.Request.Context(), order.AcceptCommand{
		OrderID:      orderID,
		OwnerUserID:  middleware.CallerID(c),
		DeliveryType: order.DeliveryType(req.DeliveryType),
		PrepMinutes:  req.PrepMinutes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOrder(o))
}

func (h *RestaurantHandler) MarkReady(c *gin.Context) {
	h.orderAction(c, h.orders.MarkReady, order.StatusReadyForPickup)
}

func (h *RestaurantHandler) CancelOrder(c *gin.Context) {
	h.orderAction(c, h.orders.CancelByRestaurant, order.StatusCancelled)
}

func (h *RestaurantHandler) StartDelivery(c *gin.Context) {
	h.orderAction(c, h.orders.StartSelfDelivery, order.StatusOnTheWay)
}

func (h *RestaurantHandler) CompleteDelivery(c *gin.Context) {
	h.orderAction(c, h.orders.CompleteSelfDelivery, order.StatusDelivered)
}

func (h *RestaurantHandler) orderAction(c *gin.Context, fn func(ctx context.Context, orderID, ownerUserID types.ID) error, result order.Status) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), orderID, middleware.CallerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": result})
}
