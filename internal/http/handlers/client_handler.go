package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jetfood/internal/http/middleware"
	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/order"
	"jetfood/internal/modules/pricing"
	"jetfood/internal/types"
)

// ClientHandler serves the client app: ordering, addresses, and reviews.
type ClientHandler struct {
	orders  *order.Service
	account *account.Service
	catalog *catalog.Service
}

func NewClientHandler(orders *order.Service, acc *account.Service, cat *catalog.Service) *ClientHandler {
	return &ClientHandler{orders: orders, account: acc, catalog: cat}
}

type cartLineReq struct {
	DishID   int64 `json:"dish_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required"`
}

type createOrderReq struct {
	RestaurantID int64         `json:"restaurant_id" binding:"required"`
	AddressID    int64         `json:"address_id" binding:"required"`
	Items        []cartLineReq `json:"items" binding:"required"`
	PromoCode    string        `json:"promo_code"`
}

func (h *ClientHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	cmd := order.CreateCommand{
		UserID:       middleware.CallerID(c),
		RestaurantID: types.ID(req.RestaurantID),
		AddressID:    types.ID(req.AddressID),
		PromoCode:    req.PromoCode,
	}
	for _, l := range req.Items {
		cmd.Items = append(cmd.Items, pricing.CartLine{DishID: types.ID(l.DishID), Quantity: l.Quantity})
	}

	res, err := h.orders.Create(c.Request.Context(), cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"order_id":    res.OrderID,
		"code":        res.Code,
		"payment_url": res.PaymentURL,
	})
}

func (h *ClientHandler) MyOrders(c *gin.Context) {
	orders, err := h.orders.MyOrders(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOrders(orders))
}

func (h *ClientHandler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	o, err := h.orders.OrderForUser(c.Request.Context(), id, middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOrder(o))
}

type createReviewReq struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

// CreateReview accepts a review for the caller's delivered order.
func (h *ClientHandler) CreateReview(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	o, err := h.orders.OrderForUser(c.Request.Context(), orderID, middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if o.Status != order.StatusDelivered {
		writeError(c, http.StatusConflict, "order is not delivered yet")
		return
	}

	id, err := h.catalog.CreateReview(c.Request.Context(), &catalog.Review{
		OrderID:      o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"review_id": id})
}

type createAddressReq struct {
	City        string   `json:"city"`
	Street      string   `json:"street" binding:"required"`
	HouseNumber string   `json:"house_number" binding:"required"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

func (h *ClientHandler) CreateAddress(c *gin.Context) {
	var req createAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	a := &account.Address{
		UserID:      middleware.CallerID(c),
		City:        req.City,
		Street:      req.Street,
		HouseNumber: req.HouseNumber,
	}
	if req.Lat != nil && req.Lng != nil {
		a.Location = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}
	id, err := h.account.CreateAddress(c.Request.Context(), a)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"address_id": id})
}

func (h *ClientHandler) MyAddresses(c *gin.Context) {
	addrs, err := h.account.ListAddresses(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]addressView, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, viewAddress(a))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *ClientHandler) DeleteAddress(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.account.DeleteAddress(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": true})
}
